package store

import (
	"context"
	"strconv"
	"time"
)

// Append-only intake tabs: messages, newsletter signups, favor quote
// requests, analytics events.

var messagesHeader = []string{"Data", "Nome", "Email", "Messaggio", "Lingua"}

func (s *Store) AppendMessage(ctx context.Context, name, email, message, lang string) error {
	if err := s.api.EnsureSheet(ctx, SheetMessages, messagesHeader); err != nil {
		return err
	}
	return s.api.AppendRow(ctx, SheetMessages, []string{
		time.Now().UTC().Format(time.RFC3339), name, email, message, lang,
	})
}

var newsletterHeader = []string{"Data", "Email", "Nome", "Lingua", "Stato iscrizione"}

func (s *Store) AppendNewsletterSignup(ctx context.Context, email, name, lang string) error {
	if err := s.api.EnsureSheet(ctx, SheetNewsletter, newsletterHeader); err != nil {
		return err
	}
	return s.api.AppendRow(ctx, SheetNewsletter, []string{
		time.Now().UTC().Format(time.RFC3339), email, name, lang, "ISCRITTO",
	})
}

var favorsHeader = []string{"Data", "Nome", "Email", "Lingua", "Evento", "Qty", "Note"}

func (s *Store) AppendFavorRequest(ctx context.Context, name, email, lang, eventType string, quantity int, note string) error {
	if err := s.api.EnsureSheet(ctx, SheetFavors, favorsHeader); err != nil {
		return err
	}
	return s.api.AppendRow(ctx, SheetFavors, []string{
		time.Now().UTC().Format(time.RFC3339), name, email, lang, eventType,
		strconv.Itoa(quantity), note,
	})
}

var analyticsHeader = []string{"Data", "Email", "Evento", "Lingua", "Dettagli"}

func (s *Store) AppendAnalyticsEvent(ctx context.Context, email, event, lang, details string) error {
	if err := s.api.EnsureSheet(ctx, SheetAnalytics, analyticsHeader); err != nil {
		return err
	}
	if email == "" {
		email = "Anonimo"
	}
	return s.api.AppendRow(ctx, SheetAnalytics, []string{
		time.Now().UTC().Format(time.RFC3339), email, event, lang, details,
	})
}

// MarkUnsubscribed flips the status column to DISISCRITTO wherever the email
// appears in the newsletter tab and stamps the contact archive role. Returns
// how many rows changed.
func (s *Store) MarkUnsubscribed(ctx context.Context, email string) (int, error) {
	changed := 0

	rows, err := s.api.ReadAll(ctx, SheetNewsletter)
	if err != nil {
		return 0, err
	}
	if len(rows) > 1 {
		emailCol := colIndex(rows[0], "email")
		statusCol := colIndex(rows[0], "stato")
		for i := 1; i < len(rows); i++ {
			if !sameEmail(cell(rows[i], emailCol), email) {
				continue
			}
			if cell(rows[i], statusCol) == "DISISCRITTO" {
				continue
			}
			row := setCell(padTo(rows[i], len(rows[0])), statusCol, "DISISCRITTO")
			if err := s.api.UpdateRow(ctx, SheetNewsletter, i+1, row); err != nil {
				return changed, err
			}
			changed++
		}
	}

	arch, err := s.api.ReadAll(ctx, SheetContacts)
	if err != nil {
		return changed, err
	}
	if len(arch) > 1 {
		cols := mapContactColumns(arch[0])
		for i := 1; i < len(arch); i++ {
			if !sameEmail(cell(arch[i], cols.email), email) {
				continue
			}
			row := setCell(padTo(arch[i], cols.width), cols.role, "DISISCRITTO")
			if err := s.api.UpdateRow(ctx, SheetContacts, i+1, row); err != nil {
				return changed, err
			}
			changed++
			break
		}
	}

	return changed, nil
}
