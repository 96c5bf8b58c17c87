package store

import (
	"context"
	"strings"
	"time"
)

var cartHeader = []string{
	"Data", "Stato", "Nome", "Cognome", "Email", "Lingua", "Certificato",
	"Etichetta", "Prodotto", "Regalo", "Codice", "Referral_ID", "Prezzo", "ID_Carrello",
}

// Cart is a checkout attempt logged before payment, used to recover
// abandoned carts from the cancel-page link.
type Cart struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Language     string
	CertName     string
	LabelName    string
	ProductName  string
	Gift         bool
	GiftMessage  string
	DiscountCode string
	MemberID     string
	Price        string
}

type cartColumns struct {
	date, status, first, last, email, lang     int
	cert, label, product, gift, code, referral int
	price, id                                  int
}

func mapCartColumns(header []string) cartColumns {
	return cartColumns{
		date:     colIndex(header, "data"),
		status:   colIndex(header, "stato"),
		first:    colIndex(header, "nome"),
		last:     colIndex(header, "cognome"),
		email:    colIndex(header, "email"),
		lang:     colIndex(header, "lingua"),
		cert:     colIndex(header, "certificato"),
		label:    colIndex(header, "etichetta"),
		product:  colIndex(header, "prodotto"),
		gift:     colIndex(header, "regalo"),
		code:     colIndex(header, "codice"),
		referral: colIndex(header, "referral"),
		price:    colIndex(header, "prezzo"),
		id:       colIndex(header, "id_carrello"),
	}
}

// AppendCart logs a checkout attempt with state IN_CORSO.
func (s *Store) AppendCart(ctx context.Context, c Cart) error {
	if err := s.api.EnsureSheet(ctx, SheetCarts, cartHeader); err != nil {
		return err
	}

	gift := "No"
	if c.Gift {
		gift = "Si"
		if c.GiftMessage != "" {
			msg := c.GiftMessage
			// truncate on a rune boundary, the cell must stay valid UTF-8
			if r := []rune(msg); len(r) > 100 {
				msg = string(r[:100])
			}
			gift += " - " + msg
		}
	}

	label := c.LabelName
	if !strings.HasPrefix(strings.ToLower(label), "olio") {
		label = "Olio " + label
	}

	return s.api.AppendRow(ctx, SheetCarts, []string{
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		"IN_CORSO", c.FirstName, c.LastName, c.Email, c.Language,
		c.CertName, label, c.ProductName, gift, c.DiscountCode, c.MemberID,
		c.Price, c.ID,
	})
}

// CartByID recovers a logged attempt; ok=false when the id is unknown.
func (s *Store) CartByID(ctx context.Context, cartID string) (Cart, bool, error) {
	rows, err := s.api.ReadAll(ctx, SheetCarts)
	if err != nil || len(rows) < 2 {
		return Cart{}, false, err
	}

	cols := mapCartColumns(rows[0])
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if cell(row, cols.id) != cartID {
			continue
		}

		giftCell := cell(row, cols.gift)
		c := Cart{
			ID:           cartID,
			FirstName:    cell(row, cols.first),
			LastName:     cell(row, cols.last),
			Email:        cell(row, cols.email),
			Language:     cell(row, cols.lang),
			CertName:     cell(row, cols.cert),
			LabelName:    strings.TrimPrefix(cell(row, cols.label), "Olio "),
			ProductName:  cell(row, cols.product),
			Gift:         strings.HasPrefix(giftCell, "Si"),
			DiscountCode: cell(row, cols.code),
			MemberID:     cell(row, cols.referral),
			Price:        cell(row, cols.price),
		}
		if _, msg, found := strings.Cut(giftCell, " - "); found {
			c.GiftMessage = msg
		}
		return c, true, nil
	}
	return Cart{}, false, nil
}
