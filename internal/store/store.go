// Package store is the typed record layer over the spreadsheet. Column
// positions are resolved from the header row once per read; nothing outside
// this package touches raw rows or header text.
package store

import "context"

// RowAPI is the slice of the sheets client the store needs. Satisfied by
// *sheets.Client; tests use an in-memory fake.
type RowAPI interface {
	ReadAll(ctx context.Context, sheet string) ([][]string, error)
	AppendRow(ctx context.Context, sheet string, row []string) error
	UpdateRow(ctx context.Context, sheet string, rowIndex1 int, row []string) error
	EnsureSheet(ctx context.Context, sheet string, header []string) error
}

// Tab names, as they appear in the live spreadsheet.
const (
	SheetOrders       = "Storico ordini"
	SheetContacts     = "Archivio contatti"
	SheetCarts        = "Carrelli"
	SheetPending      = "Claim in attesa di pairing"
	SheetEmailChanges = "Storico cambi email"
	SheetMessages     = "Storico messaggi ricevuti"
	SheetNewsletter   = "Newsletter"
	SheetFavors       = "Favors"
	SheetAnalytics    = "Analytics"
)

type Store struct {
	api RowAPI
}

func New(api RowAPI) *Store {
	return &Store{api: api}
}

// Address is a shipping address as the sheet stores it.
type Address struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}
