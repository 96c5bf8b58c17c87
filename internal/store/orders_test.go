package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRow(id, date, buyer, adopterEmail, adopterName string) []string {
	return []string{
		id, date, buyer, "Buyer Name",
		adopterEmail, adopterName, "No", "Welcome Kit (1 Liter)",
		"", "Old St 1", "", "Oldtown", "00100", "IT", "",
		"", "79.00", "en",
	}
}

func TestClaimCandidatesFiltering(t *testing.T) {
	orders := []Order{
		{ID: "s1", Date: "2024-01-01", BuyerEmail: "a@x.com", AdopterEmail: ""},
		{ID: "s2", Date: "2024-02-01", BuyerEmail: "a@x.com", AdopterEmail: "b@x.com"},
		{ID: "s3", Date: "2024-03-01", BuyerEmail: "a@x.com", AdopterEmail: "A@X.COM"},
		{ID: "s4", Date: "2024-04-01", BuyerEmail: "someoneelse@y.com", AdopterEmail: ""},
	}

	got := ClaimCandidates(orders, " a@x.com ")

	// s2 is already claimed by a third party, s4 belongs to another buyer.
	require.Len(t, got, 2)
	assert.Equal(t, "s3", got[0].ID) // most recent first
	assert.Equal(t, "s1", got[1].ID)
}

func TestClaimCandidatesSortAndTies(t *testing.T) {
	orders := []Order{
		{ID: "old", Date: "2024-01-01", BuyerEmail: "a@x.com"},
		{ID: "broken", Date: "not a date", BuyerEmail: "a@x.com"},
		{ID: "tie1", Date: "2024-05-01", BuyerEmail: "a@x.com"},
		{ID: "tie2", Date: "2024-05-01", BuyerEmail: "a@x.com"},
	}

	got := ClaimCandidates(orders, "a@x.com")

	require.Len(t, got, 4)
	// ties keep sheet order, unparseable dates sink to the bottom
	assert.Equal(t, []string{"tie1", "tie2", "old", "broken"},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}

func TestOrderByID(t *testing.T) {
	orders := []Order{{ID: "s1"}, {ID: "s2"}}

	o, ok := OrderByID(orders, "s2")
	require.True(t, ok)
	assert.Equal(t, "s2", o.ID)

	_, ok = OrderByID(orders, "nope")
	assert.False(t, ok)

	// blank ids never match a blank query
	_, ok = OrderByID([]Order{{ID: ""}}, "")
	assert.False(t, ok)
}

func TestLinkAdopterNeverTouchesAdopterName(t *testing.T) {
	api := newFakeAPI()
	api.seed(SheetOrders, [][]string{
		OrderHeader,
		orderRow("s1", "2024-01-01", "a@x.com", "", "For Grandma"),
	})
	s := New(api)

	orders, err := s.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	addr := Address{Line1: "New St 5", City: "Rome", PostalCode: "00184", Country: "IT"}
	require.NoError(t, s.LinkAdopter(context.Background(), orders[0], "b@x.com", addr))

	row := api.tabs[SheetOrders][1]
	assert.Equal(t, "b@x.com", row[4])
	assert.Equal(t, "For Grandma", row[5]) // certificate text survives
	assert.Equal(t, "New St 5", row[9])
	assert.Equal(t, "", row[10]) // line2 overwritten with the claim's blank
	assert.Equal(t, "Rome", row[11])
	assert.Equal(t, "00184", row[12])
	assert.Equal(t, "IT", row[13])
}

func TestSetRecipientEmailByMemberID(t *testing.T) {
	api := newFakeAPI()
	api.seed(SheetOrders, [][]string{
		{"ID ordine", "Member ID", "Email adottante"},
		{"s1", "AYO123", "old@x.com"},
	})
	s := New(api)

	ok, err := s.SetRecipientEmailByMemberID(context.Background(), "AYO123", "new@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new@x.com", api.tabs[SheetOrders][1][2])

	ok, err = s.SetRecipientEmailByMemberID(context.Background(), "MISSING", "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppendOrderCreatesTab(t *testing.T) {
	api := newFakeAPI()
	s := New(api)

	err := s.AppendOrder(context.Background(), Order{
		ID: "s1", BuyerEmail: "a@x.com", Gift: true, AmountPaid: "49.00",
	})
	require.NoError(t, err)

	require.Len(t, api.tabs[SheetOrders], 2)
	row := api.tabs[SheetOrders][1]
	assert.Equal(t, "s1", row[0])
	assert.Equal(t, "Sì", row[6])
}
