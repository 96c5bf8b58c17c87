package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLang(t *testing.T) {
	assert.Equal(t, "it", NormalizeLang("it"))
	assert.Equal(t, "it", NormalizeLang(" IT-it "))
	assert.Equal(t, "en", NormalizeLang("en-US"))
	assert.Equal(t, "en", NormalizeLang("fr"))
	assert.Equal(t, "en", NormalizeLang(""))
}

func TestKitByID(t *testing.T) {
	kit, ok := KitByID(" Family-Kit ")
	require.True(t, ok)
	assert.Equal(t, "family-kit", kit.ID)
	assert.Equal(t, int64(12900), kit.Prices["it"])

	_, ok = KitByID("mystery-kit")
	assert.False(t, ok)
}

func TestResolveDiscount(t *testing.T) {
	d, ok := ResolveDiscount("  welcome10 ")
	require.True(t, ok)
	assert.Equal(t, DiscountPercentage, d.Type)
	assert.Equal(t, int64(10), d.Value)

	d, ok = ResolveDiscount("OLIVE5")
	require.True(t, ok)
	assert.Equal(t, DiscountFixed, d.Type)
	assert.Equal(t, int64(500), d.Value)

	_, ok = ResolveDiscount("NOPE")
	assert.False(t, ok)
}
