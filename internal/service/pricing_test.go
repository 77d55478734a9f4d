package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/utils"
)

var testAddons = []domain.Addon{
	{Key: "basic", Name: "Basic Insurance", Rate: decimal.NewFromInt(500)},
	{Key: "premium", Name: "Premium Insurance", Rate: decimal.NewFromInt(2000)},
}

func TestPricingService_Quote(t *testing.T) {
	ctx := context.Background()
	units := new(MockUnitRepo)
	units.On("GetByID", ctx, int32(7)).Return(&domain.Unit{ID: 7, BaseMonthlyRate: decimal.NewFromInt(5000)}, nil)
	units.On("GetByID", ctx, int32(8)).Return(nil, domain.ErrNotFound)
	svc := NewPricingService(units, utils.DefaultPriceRates(), testAddons)

	t.Run("No add-on", func(t *testing.T) {
		b, err := svc.Quote(ctx, 7, 2, 1, "")
		require.NoError(t, err)
		assert.Equal(t, "11250.00", b.GrandTotal.StringFixed(2))
		assert.True(t, b.AddonRate.IsZero())
	})

	t.Run("Add-on key is case insensitive", func(t *testing.T) {
		b, err := svc.Quote(ctx, 7, 1, 3, "Basic")
		require.NoError(t, err)
		assert.Equal(t, "500", b.AddonRate.String())
		assert.Equal(t, "16500", b.DurationSubtotal.String())
	})

	t.Run("Unknown add-on", func(t *testing.T) {
		_, err := svc.Quote(ctx, 7, 1, 1, "gold")
		assert.ErrorIs(t, err, domain.ErrInvalidQuote)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		_, err := svc.Quote(ctx, 7, 0, 1, "none")
		assert.ErrorIs(t, err, domain.ErrInvalidQuote)
	})

	t.Run("Unknown unit", func(t *testing.T) {
		_, err := svc.Quote(ctx, 8, 1, 1, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := svc.Quote(ctx, 7, 3, 7, "premium")
		require.NoError(t, err)
		b, err := svc.Quote(ctx, 7, 3, 7, "premium")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestPricingService_AddonsIsCopy(t *testing.T) {
	svc := NewPricingService(new(MockUnitRepo), utils.DefaultPriceRates(), testAddons)
	addons := svc.Addons()
	addons[0].Name = "changed"
	assert.Equal(t, "Basic Insurance", svc.Addons()[0].Name)
}

func TestPricingService_ValidateInput(t *testing.T) {
	units := new(MockUnitRepo)
	svc := NewPricingService(units, utils.DefaultPriceRates(), testAddons)

	assert.NoError(t, svc.ValidateInput(1, 1, ""))
	assert.NoError(t, svc.ValidateInput(2, 3, "PREMIUM"))
	assert.ErrorIs(t, svc.ValidateInput(0, 1, "basic"), domain.ErrInvalidQuote)
	assert.ErrorIs(t, svc.ValidateInput(1, 0, ""), domain.ErrInvalidQuote)
	assert.ErrorIs(t, svc.ValidateInput(1, 1, "gold"), domain.ErrInvalidQuote)
	units.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
