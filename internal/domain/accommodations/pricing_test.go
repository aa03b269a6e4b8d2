package accommodations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	cfg := DefaultPricing()

	tests := []struct {
		nights int
		want   int
	}{
		{2, 2300},
		{3, 2500},
		{4, 2800},
	}
	for _, tt := range tests {
		price, err := cfg.Price(tt.nights)
		require.NoError(t, err)
		assert.Equal(t, tt.want, price, "nights=%d", tt.nights)
	}
}

func TestPriceInvalidNights(t *testing.T) {
	cfg := DefaultPricing()

	for _, nights := range []int{0, 1, 5, -2, 100} {
		_, err := cfg.Price(nights)
		assert.ErrorIs(t, err, ErrInvalidNights, "nights=%d", nights)
	}
}

func TestValidateStart(t *testing.T) {
	cfg := DefaultPricing()

	t.Run("allowed days pass", func(t *testing.T) {
		assert.NoError(t, cfg.ValidateStart(2, 27))
		assert.NoError(t, cfg.ValidateStart(2, 28))
		assert.NoError(t, cfg.ValidateStart(3, 27))
		assert.NoError(t, cfg.ValidateStart(4, 26))
	})

	t.Run("disallowed day names the permitted ones", func(t *testing.T) {
		err := cfg.ValidateStart(2, 25)
		require.Error(t, err)
		assert.EqualError(t, err, "Invalid start date for 2 nights. Allowed starts: 27, 28 Feb")
	})

	t.Run("single-day tier rejects the neighbor", func(t *testing.T) {
		err := cfg.ValidateStart(3, 28)
		require.Error(t, err)
		assert.EqualError(t, err, "Invalid start date for 3 nights. Allowed starts: 27 Feb")
	})

	t.Run("unknown tier", func(t *testing.T) {
		assert.ErrorIs(t, cfg.ValidateStart(7, 27), ErrInvalidNights)
	})
}
