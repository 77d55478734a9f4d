package domain

import "github.com/shopspring/decimal"

// PriceBreakdown is the itemized quote stamped onto a reservation.
type PriceBreakdown struct {
	BaseRate         decimal.Decimal `json:"base_rate"`
	AddonRate        decimal.Decimal `json:"addon_rate"`
	Quantity         int             `json:"quantity"`
	DurationMonths   int             `json:"duration_months"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	AddonCost        decimal.Decimal `json:"addon_cost"`
	MonthlySubtotal  decimal.Decimal `json:"monthly_subtotal"`
	DurationSubtotal decimal.Decimal `json:"duration_subtotal"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	Tax              decimal.Decimal `json:"tax"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}

// Addon is a selectable per-unit monthly extra such as an insurance tier.
type Addon struct {
	Key  string          `json:"key"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// BookingNotes is the structured content of a reservation's notes field.
type BookingNotes struct {
	Quantity       int             `json:"quantity"`
	DurationMonths int             `json:"duration_months"`
	AddonName      string          `json:"addon_name"`
	AddonCost      decimal.Decimal `json:"addon_cost"`
}

// NotesResult tags decoded notes as parsed or defaulted.
type NotesResult struct {
	Notes  BookingNotes `json:"notes"`
	Parsed bool         `json:"parsed"`
}
