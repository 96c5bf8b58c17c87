package store

import (
	"context"
	"time"
)

// ContactHeader mirrors the live archive tab. The order-count column is an
// ARRAYFORMULA and the adoption status/expiry columns are hand-maintained;
// none of the three is ever written here.
var ContactHeader = []string{
	"Email", "Nome completo", "Lingua", "Data primo contatto", "Data ultimo ordine",
	"Ruolo ultimo ordine",
	"Numero ordini effettuati (colonna calcolata tramite arrayformula)",
	"Stato adozione personale", "Data scadenza adozione personale",
	"Ultimo indirizzo spedizione conosciuto 1", "Ultimo indirizzo spedizione conosciuto 2",
	"Ultima città spedizione conosciuta", "Ultimo CAP spedizione conosciuto",
	"Ultima nazione spedizione conosciuta",
}

// Contact roles, as the archive spells them.
const (
	RolePersonalBuyer = "Personale"
	RoleGiftBuyer     = "Regalo"
	RoleGiftAdopter   = "Adottante Regalo"
)

// ContactUpdate carries whatever the calling flow knows about a person.
// Zero-valued fields are "unknown" and never blank a stored value.
type ContactUpdate struct {
	Email      string
	Name       string
	Language   string
	Role       string
	OrderedNow bool // stamps the last-order date
	Address    *Address
}

type contactColumns struct {
	email, name, lang, first, last, role int
	addr1, addr2, city, zip, country     int
	width                                int
}

func mapContactColumns(header []string) contactColumns {
	return contactColumns{
		email:   colIndex(header, "email"),
		name:    colIndex(header, "nome completo"),
		lang:    colIndex(header, "lingua"),
		first:   colIndex(header, "data primo contatto"),
		last:    colIndex(header, "data ultimo ordine"),
		role:    colIndex(header, "ruolo ultimo ordine"),
		addr1:   colIndex(header, "indirizzo spedizione conosciuto 1"),
		addr2:   colIndex(header, "indirizzo spedizione conosciuto 2"),
		city:    colIndex(header, "città"),
		zip:     colIndex(header, "cap"),
		country: colIndex(header, "nazione"),
		width:   len(header),
	}
}

// UpsertContact finds-or-creates the archive row for an email. Supplied
// non-empty fields overwrite; blanks never clobber what's stored. The
// first-contact date is set once and kept forever.
func (s *Store) UpsertContact(ctx context.Context, u ContactUpdate) error {
	if err := s.api.EnsureSheet(ctx, SheetContacts, ContactHeader); err != nil {
		return err
	}

	rows, err := s.api.ReadAll(ctx, SheetContacts)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{ContactHeader}
	}

	cols := mapContactColumns(rows[0])
	now := time.Now().UTC().Format(time.RFC3339)

	rowIdx := -1
	for i := 1; i < len(rows); i++ {
		if sameEmail(cell(rows[i], cols.email), u.Email) {
			rowIdx = i
			break
		}
	}

	var row []string
	if rowIdx >= 0 {
		row = padTo(rows[rowIdx], cols.width)
	} else {
		row = padTo(nil, cols.width)
	}

	row = setCell(row, cols.email, u.Email)
	merge := func(idx int, val string) {
		if val != "" {
			row = setCell(row, idx, val)
		}
	}
	merge(cols.name, u.Name)
	merge(cols.lang, u.Language)
	merge(cols.role, u.Role)
	if cell(row, cols.first) == "" {
		row = setCell(row, cols.first, now)
	}
	if u.OrderedNow {
		row = setCell(row, cols.last, now)
	}
	if u.Address != nil {
		merge(cols.addr1, u.Address.Line1)
		merge(cols.addr2, u.Address.Line2)
		merge(cols.city, u.Address.City)
		merge(cols.zip, u.Address.PostalCode)
		merge(cols.country, u.Address.Country)
	}

	if rowIdx >= 0 {
		return s.api.UpdateRow(ctx, SheetContacts, rowIdx+1, row)
	}
	return s.api.AppendRow(ctx, SheetContacts, row)
}

// ReplaceContactEmail swaps the email on an existing archive row. Returns
// false when the old email has no row.
func (s *Store) ReplaceContactEmail(ctx context.Context, oldEmail, newEmail string) (bool, error) {
	rows, err := s.api.ReadAll(ctx, SheetContacts)
	if err != nil || len(rows) < 2 {
		return false, err
	}

	cols := mapContactColumns(rows[0])
	for i := 1; i < len(rows); i++ {
		if !sameEmail(cell(rows[i], cols.email), oldEmail) {
			continue
		}
		row := setCell(padTo(rows[i], cols.width), cols.email, newEmail)
		if err := s.api.UpdateRow(ctx, SheetContacts, i+1, row); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
