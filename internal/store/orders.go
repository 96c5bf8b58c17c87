package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// OrderHeader is written when the orders tab has to be created. Existing
// tabs keep whatever header they have; columns are matched, not positional.
var OrderHeader = []string{
	"ID ordine", "Data ordine", "Email acquirente", "Nome acquirente",
	"Email adottante", "Nome adottante", "Regalo?", "Tipo adozione",
	"Messaggio personalizzato", "Indirizzo spedizione 1", "Indirizzo spedizione 2",
	"Città spedizione", "CAP spedizione", "Nazione spedizione", "Note sull'ordine",
	"Codice sconto usato", "Importo pagato", "Lingua",
}

// Order is one row of the orders tab. The buyer fields are written once at
// checkout completion; the adopter email and shipping fields are the only
// ones the gift reconciler may rewrite. AdopterName holds the certificate
// text entered at purchase time and is never rewritten.
type Order struct {
	ID           string
	Date         string
	BuyerEmail   string
	BuyerName    string
	AdopterEmail string
	AdopterName  string
	Gift         bool
	Product      string
	Message      string
	Shipping     Address
	Note         string
	DiscountCode string
	AmountPaid   string
	Language     string

	rowIndex1 int // 1-based sheet row, 0 for not-yet-stored
	raw       []string
}

type orderColumns struct {
	id, date, buyerEmail, buyerName    int
	adopterEmail, adopterName, gift    int
	product, message                   int
	ship1, ship2, city, zip, country   int
	note, discount, amount, lang       int
	width                              int
}

func mapOrderColumns(header []string) orderColumns {
	return orderColumns{
		id:           colIndex(header, "id ordine"),
		date:         colIndex(header, "data ordine"),
		buyerEmail:   colIndex(header, "email acquirente"),
		buyerName:    colIndex(header, "nome acquirente"),
		adopterEmail: colIndex(header, "email adottante"),
		adopterName:  colIndex(header, "nome adottante"),
		gift:         colIndex(header, "regalo"),
		product:      colIndex(header, "tipo adozione"),
		message:      colIndex(header, "messaggio"),
		ship1:        colIndex(header, "indirizzo spedizione 1"),
		ship2:        colIndex(header, "indirizzo spedizione 2"),
		city:         colIndex(header, "città spedizione"),
		zip:          colIndex(header, "cap spedizione"),
		country:      colIndex(header, "nazione spedizione"),
		note:         colIndex(header, "note sull"),
		discount:     colIndex(header, "codice sconto"),
		amount:       colIndex(header, "importo"),
		lang:         colIndex(header, "lingua"),
		width:        len(header),
	}
}

func orderFromRow(row []string, cols orderColumns, rowIndex1 int) Order {
	return Order{
		ID:           cell(row, cols.id),
		Date:         cell(row, cols.date),
		BuyerEmail:   cell(row, cols.buyerEmail),
		BuyerName:    cell(row, cols.buyerName),
		AdopterEmail: cell(row, cols.adopterEmail),
		AdopterName:  cell(row, cols.adopterName),
		Gift:         cell(row, cols.gift) == "Sì",
		Product:      cell(row, cols.product),
		Message:      cell(row, cols.message),
		Shipping: Address{
			Line1:      cell(row, cols.ship1),
			Line2:      cell(row, cols.ship2),
			City:       cell(row, cols.city),
			PostalCode: cell(row, cols.zip),
			Country:    cell(row, cols.country),
		},
		Note:         cell(row, cols.note),
		DiscountCode: cell(row, cols.discount),
		AmountPaid:   cell(row, cols.amount),
		Language:     cell(row, cols.lang),
		rowIndex1:    rowIndex1,
		raw:          row,
	}
}

// AppendOrder writes a new order row, creating the tab on first use.
func (s *Store) AppendOrder(ctx context.Context, o Order) error {
	if err := s.api.EnsureSheet(ctx, SheetOrders, OrderHeader); err != nil {
		return err
	}

	gift := "No"
	if o.Gift {
		gift = "Sì"
	}
	return s.api.AppendRow(ctx, SheetOrders, []string{
		o.ID, o.Date, o.BuyerEmail, o.BuyerName,
		o.AdopterEmail, o.AdopterName, gift, o.Product,
		o.Message, o.Shipping.Line1, o.Shipping.Line2,
		o.Shipping.City, o.Shipping.PostalCode, o.Shipping.Country, o.Note,
		o.DiscountCode, o.AmountPaid, o.Language,
	})
}

// Orders reads the whole orders tab into typed records.
func (s *Store) Orders(ctx context.Context) ([]Order, error) {
	rows, err := s.api.ReadAll(ctx, SheetOrders)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := mapOrderColumns(rows[0])
	out := make([]Order, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		out = append(out, orderFromRow(rows[i], cols, i+1))
	}
	return out, nil
}

// orderDate parses the order-date cell. Unparseable dates sort as epoch, so
// a damaged cell demotes its row rather than hiding it.
func orderDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ClaimCandidates returns the buyer's orders a gift recipient could be
// linked to, most recent first (ties keep sheet order). An order already
// claimed by a third party is excluded; an adopter email equal to the
// buyer's own is the unclaimed default checkout seeds for personal orders.
func ClaimCandidates(orders []Order, buyerEmail string) []Order {
	var out []Order
	for _, o := range orders {
		if !sameEmail(o.BuyerEmail, buyerEmail) {
			continue
		}
		if o.AdopterEmail != "" && !sameEmail(o.AdopterEmail, buyerEmail) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return orderDate(out[i].Date).After(orderDate(out[j].Date))
	})
	return out
}

// OrderByID finds an exact id-column match.
func OrderByID(orders []Order, id string) (Order, bool) {
	for _, o := range orders {
		if o.ID != "" && o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// LinkAdopter writes the recipient's email and shipping address into an
// order row. The adopter-name column is left untouched: it carries the
// certificate text from purchase time.
func (s *Store) LinkAdopter(ctx context.Context, o Order, recipientEmail string, addr Address) error {
	if o.rowIndex1 < 2 {
		return fmt.Errorf("order %s has no sheet row", o.ID)
	}

	rows, err := s.api.ReadAll(ctx, SheetOrders)
	if err != nil {
		return err
	}
	if len(rows) == 0 || o.rowIndex1 > len(rows) {
		return fmt.Errorf("order row %d out of range", o.rowIndex1)
	}

	cols := mapOrderColumns(rows[0])
	row := padTo(rows[o.rowIndex1-1], cols.width)
	row = setCell(row, cols.adopterEmail, recipientEmail)
	row = setCell(row, cols.ship1, addr.Line1)
	row = setCell(row, cols.ship2, addr.Line2)
	row = setCell(row, cols.city, addr.City)
	row = setCell(row, cols.zip, addr.PostalCode)
	row = setCell(row, cols.country, addr.Country)

	return s.api.UpdateRow(ctx, SheetOrders, o.rowIndex1, row)
}

// SetRecipientEmailByMemberID updates the recipient-email column of the
// order row carrying a member id, for certificate registrations. Returns
// false when no row matches.
func (s *Store) SetRecipientEmailByMemberID(ctx context.Context, memberID, email string) (bool, error) {
	rows, err := s.api.ReadAll(ctx, SheetOrders)
	if err != nil || len(rows) < 2 {
		return false, err
	}

	header := rows[0]
	memberCol := colIndex(header, "member id")
	recipCol := colIndex(header, "email adottante")
	if memberCol < 0 || recipCol < 0 {
		return false, nil
	}

	for i := 1; i < len(rows); i++ {
		if !sameEmail(cell(rows[i], memberCol), memberID) {
			continue
		}
		row := setCell(padTo(rows[i], len(header)), recipCol, email)
		if err := s.api.UpdateRow(ctx, SheetOrders, i+1, row); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
