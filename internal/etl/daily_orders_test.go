package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/store"
)

func etlOrder(date, product, lang, amount string, gift bool) store.Order {
	return store.Order{
		ID: "s_" + date, Date: date, Product: product,
		Language: lang, AmountPaid: amount, Gift: gift,
	}
}

func TestAggregateOrdersFiltersToDay(t *testing.T) {
	orders := []store.Order{
		etlOrder("2024-03-01T10:00:00Z", "Welcome Kit (1 Liter)", "it", "49.00", false),
		etlOrder("2024-03-02T09:00:00Z", "Welcome Kit (1 Liter)", "it", "49.00", false),
		etlOrder("2024-03-01T18:30:00Z", "Welcome Kit (1 Liter)", "it", "44.10", true),
	}

	rows := AggregateOrders(orders, "2024-03-01")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].OrderCount)
	assert.Equal(t, int64(1), rows[0].GiftCount)
	assert.InDelta(t, 93.10, rows[0].GrossEUR, 0.001)
	assert.Equal(t, "2024-03-01", rows[0].OrderDate)
}

func TestAggregateOrdersSplitsByProductAndLanguage(t *testing.T) {
	orders := []store.Order{
		etlOrder("2024-03-01T10:00:00Z", "Welcome Kit (1 Liter)", "it", "49.00", false),
		etlOrder("2024-03-01T11:00:00Z", "Welcome Kit (1 Liter)", "en", "49.00", false),
		etlOrder("2024-03-01T12:00:00Z", "Premium Kit (3 Liters)", "it", "89.00", false),
	}

	rows := AggregateOrders(orders, "2024-03-01")
	require.Len(t, rows, 3)

	// deterministic output order: product, then language
	assert.Equal(t, "Premium Kit (3 Liters)", rows[0].Product)
	assert.Equal(t, "Welcome Kit (1 Liter)", rows[1].Product)
	assert.Equal(t, "en", rows[1].Language)
	assert.Equal(t, "Welcome Kit (1 Liter)", rows[2].Product)
	assert.Equal(t, "it", rows[2].Language)
}

func TestAggregateOrdersSkipsUnparsableAmounts(t *testing.T) {
	orders := []store.Order{
		etlOrder("2024-03-01T10:00:00Z", "Welcome Kit (1 Liter)", "it", "49.00", false),
		etlOrder("2024-03-01T11:00:00Z", "Welcome Kit (1 Liter)", "it", "n/a", false),
	}

	rows := AggregateOrders(orders, "2024-03-01")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].OrderCount, "the order still counts")
	assert.InDelta(t, 49.00, rows[0].GrossEUR, 0.001)
}

func TestAggregateOrdersEmptyDay(t *testing.T) {
	rows := AggregateOrders(nil, "2024-03-01")
	assert.Empty(t, rows)
}
