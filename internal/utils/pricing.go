package utils

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storage-rental-backend/internal/domain"
)

var (
	// DefaultServiceFeeRate is applied to the duration subtotal.
	DefaultServiceFeeRate = decimal.RequireFromString("0.05")
	// DefaultTaxRate is applied to the duration subtotal.
	DefaultTaxRate = decimal.RequireFromString("0.075")
)

// currencyPlaces is the fixed-point precision of every monetary amount.
const currencyPlaces = 2

// PriceRates holds the percentages charged on top of the rental subtotal.
type PriceRates struct {
	ServiceFee decimal.Decimal
	Tax        decimal.Decimal
}

// DefaultPriceRates returns the standard fee and tax percentages.
func DefaultPriceRates() PriceRates {
	return PriceRates{ServiceFee: DefaultServiceFeeRate, Tax: DefaultTaxRate}
}

// ValidateQuoteInput checks the counts a quote is computed from.
func ValidateQuoteInput(quantity, durationMonths int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidQuote)
	}
	if durationMonths < 1 {
		return fmt.Errorf("%w: duration must be at least 1 month", domain.ErrInvalidQuote)
	}
	return nil
}

// CalculatePrice produces the itemized quote for renting quantity units for
// durationMonths months. Fee and tax are each rounded to currency precision
// before being added; the grand total itself is not rounded again.
func CalculatePrice(rates PriceRates, baseRate, addonRate decimal.Decimal, quantity, durationMonths int) (domain.PriceBreakdown, error) {
	if baseRate.IsNegative() {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: base rate must not be negative", domain.ErrInvalidQuote)
	}
	if addonRate.IsNegative() {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: add-on rate must not be negative", domain.ErrInvalidQuote)
	}
	if err := ValidateQuoteInput(quantity, durationMonths); err != nil {
		return domain.PriceBreakdown{}, err
	}

	qty := decimal.NewFromInt(int64(quantity))
	months := decimal.NewFromInt(int64(durationMonths))

	unitCost := baseRate.Mul(qty)
	addonCost := addonRate.Mul(qty)
	monthly := unitCost.Add(addonCost)
	subtotal := monthly.Mul(months)
	fee := subtotal.Mul(rates.ServiceFee).Round(currencyPlaces)
	tax := subtotal.Mul(rates.Tax).Round(currencyPlaces)

	return domain.PriceBreakdown{
		BaseRate:         baseRate,
		AddonRate:        addonRate,
		Quantity:         quantity,
		DurationMonths:   durationMonths,
		UnitCost:         unitCost,
		AddonCost:        addonCost,
		MonthlySubtotal:  monthly,
		DurationSubtotal: subtotal,
		ServiceFee:       fee,
		Tax:              tax,
		GrandTotal:       subtotal.Add(fee).Add(tax),
	}, nil
}

// FormatAmount renders a monetary value with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(currencyPlaces)
}
