package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertContactCreatesThenMerges(t *testing.T) {
	api := newFakeAPI()
	s := New(api)
	ctx := context.Background()

	require.NoError(t, s.UpsertContact(ctx, ContactUpdate{
		Email: "a@x.com", Name: "Anna", Language: "it",
	}))
	require.Len(t, api.tabs[SheetContacts], 2)

	row := api.tabs[SheetContacts][1]
	firstContact := row[3]
	assert.Equal(t, "a@x.com", row[0])
	assert.Equal(t, "Anna", row[1])
	assert.NotEmpty(t, firstContact)

	// second upsert: blanks don't clobber, first-contact date survives
	require.NoError(t, s.UpsertContact(ctx, ContactUpdate{
		Email: "A@X.COM", Role: RoleGiftAdopter,
	}))
	require.Len(t, api.tabs[SheetContacts], 2, "same email must not add a row")

	row = api.tabs[SheetContacts][1]
	assert.Equal(t, "Anna", row[1])
	assert.Equal(t, firstContact, row[3])
	assert.Equal(t, RoleGiftAdopter, row[5])
}

func TestUpsertContactOrderStampsLastOrder(t *testing.T) {
	api := newFakeAPI()
	s := New(api)
	ctx := context.Background()

	require.NoError(t, s.UpsertContact(ctx, ContactUpdate{Email: "a@x.com"}))
	assert.Equal(t, "", api.tabs[SheetContacts][1][4])

	require.NoError(t, s.UpsertContact(ctx, ContactUpdate{Email: "a@x.com", OrderedNow: true}))
	assert.NotEmpty(t, api.tabs[SheetContacts][1][4])
}

func TestUpsertContactNeverWritesFormulaColumns(t *testing.T) {
	api := newFakeAPI()
	api.seed(SheetContacts, [][]string{
		ContactHeader,
		{"a@x.com", "Anna", "it", "2024-01-01", "", "", "=FORMULA", "Attiva", "2025-01-01", "", "", "", "", ""},
	})
	s := New(api)

	require.NoError(t, s.UpsertContact(context.Background(), ContactUpdate{
		Email: "a@x.com", Name: "Anna Maria", OrderedNow: true,
	}))

	row := api.tabs[SheetContacts][1]
	assert.Equal(t, "Anna Maria", row[1])
	assert.Equal(t, "=FORMULA", row[6])
	assert.Equal(t, "Attiva", row[7])
	assert.Equal(t, "2025-01-01", row[8])
}

func TestReplaceContactEmail(t *testing.T) {
	api := newFakeAPI()
	api.seed(SheetContacts, [][]string{
		ContactHeader,
		{"old@x.com", "Anna"},
	})
	s := New(api)

	ok, err := s.ReplaceContactEmail(context.Background(), "OLD@x.com", "new@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new@x.com", api.tabs[SheetContacts][1][0])

	ok, err = s.ReplaceContactEmail(context.Background(), "missing@x.com", "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
