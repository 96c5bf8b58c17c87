package store

import (
	"context"
	"encoding/json"
	"time"
)

var pendingHeader = []string{
	"Timestamp", "BuyerEmail", "RecipientEmail", "RecipientName",
	"Address1", "Address2", "City", "Postal", "Country", "Candidati",
}

// CandidateSummary is the slice of an order a human needs to pair a claim
// manually. Serialized as JSON into the pending row.
type CandidateSummary struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	AdopterEmail string `json:"adopt"`
}

func SummarizeCandidates(orders []Order) []CandidateSummary {
	out := make([]CandidateSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, CandidateSummary{ID: o.ID, Date: o.Date, AdopterEmail: o.AdopterEmail})
	}
	return out
}

// AppendPendingClaim logs a claim the reconciler could not resolve.
func (s *Store) AppendPendingClaim(ctx context.Context, buyerEmail, recipientEmail, recipientName string, addr Address, candidates []CandidateSummary) error {
	if err := s.api.EnsureSheet(ctx, SheetPending, pendingHeader); err != nil {
		return err
	}
	if candidates == nil {
		candidates = []CandidateSummary{}
	}
	blob, _ := json.Marshal(candidates)
	return s.api.AppendRow(ctx, SheetPending, []string{
		time.Now().UTC().Format(time.RFC3339),
		buyerEmail, recipientEmail, recipientName,
		addr.Line1, addr.Line2, addr.City, addr.PostalCode, addr.Country,
		string(blob),
	})
}

var emailChangeHeader = []string{
	"Timestamp", "Tipo", "Vecchia email", "Nuova email", "Origine/Codice", "Note",
}

// LogEmailChange appends to the change-log tab. Every claim attempt lands
// here too, linked or not.
func (s *Store) LogEmailChange(ctx context.Context, changeType, oldEmail, newEmail, origin, note string) error {
	if err := s.api.EnsureSheet(ctx, SheetEmailChanges, emailChangeHeader); err != nil {
		return err
	}
	return s.api.AppendRow(ctx, SheetEmailChanges, []string{
		time.Now().UTC().Format(time.RFC3339),
		changeType, oldEmail, newEmail, origin, note,
	})
}
