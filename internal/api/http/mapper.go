package http

import (
	"time"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/utils"
)

type unitResponse struct {
	ID              int32  `json:"id"`
	WarehouseID     int32  `json:"warehouse_id"`
	Name            string `json:"name"`
	BaseMonthlyRate string `json:"base_monthly_rate"`
	Status          string `json:"status"`
	Availability    string `json:"availability"`
}

type quoteResponse struct {
	BaseRate         string `json:"base_rate"`
	AddonRate        string `json:"addon_rate"`
	Quantity         int    `json:"quantity"`
	DurationMonths   int    `json:"duration_months"`
	UnitCost         string `json:"unit_cost"`
	AddonCost        string `json:"addon_cost"`
	MonthlySubtotal  string `json:"monthly_subtotal"`
	DurationSubtotal string `json:"duration_subtotal"`
	ServiceFee       string `json:"service_fee"`
	Tax              string `json:"tax"`
	GrandTotal       string `json:"grand_total"`
}

type notesResponse struct {
	Quantity       int    `json:"quantity"`
	DurationMonths int    `json:"duration_months"`
	AddonName      string `json:"addon_name"`
	AddonCost      string `json:"addon_cost"`
	Parsed         bool   `json:"parsed"`
}

type reservationResponse struct {
	ID            int32          `json:"id"`
	UnitID        int32          `json:"unit_id"`
	UserID        int32          `json:"user_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	QuotedTotal   string         `json:"quoted_total"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	Notes         string         `json:"notes"`
	Details       *notesResponse `json:"details,omitempty"`
	CreatedOn     string         `json:"created_on"`
	UpdatedOn     string         `json:"updated_on"`
}

type identityResponse struct {
	UserID      int32  `json:"user_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Admin       bool   `json:"admin"`
}

func mapUnit(u *domain.Unit) unitResponse {
	return unitResponse{
		ID:              u.ID,
		WarehouseID:     u.WarehouseID,
		Name:            u.Name,
		BaseMonthlyRate: utils.FormatAmount(u.BaseMonthlyRate),
		Status:          string(u.Status),
		Availability:    string(u.Availability),
	}
}

func mapQuote(b *domain.PriceBreakdown) quoteResponse {
	return quoteResponse{
		BaseRate:         utils.FormatAmount(b.BaseRate),
		AddonRate:        utils.FormatAmount(b.AddonRate),
		Quantity:         b.Quantity,
		DurationMonths:   b.DurationMonths,
		UnitCost:         utils.FormatAmount(b.UnitCost),
		AddonCost:        utils.FormatAmount(b.AddonCost),
		MonthlySubtotal:  utils.FormatAmount(b.MonthlySubtotal),
		DurationSubtotal: utils.FormatAmount(b.DurationSubtotal),
		ServiceFee:       utils.FormatAmount(b.ServiceFee),
		Tax:              utils.FormatAmount(b.Tax),
		GrandTotal:       utils.FormatAmount(b.GrandTotal),
	}
}

func mapReservation(r *domain.Reservation, notes *domain.NotesResult) reservationResponse {
	resp := reservationResponse{
		ID:            r.ID,
		UnitID:        r.UnitID,
		UserID:        r.UserID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		StartDate:     r.StartDate.Format(utils.DateLayout),
		EndDate:       r.EndDate.Format(utils.DateLayout),
		QuotedTotal:   utils.FormatAmount(r.QuotedTotal),
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		Notes:         r.Notes,
		CreatedOn:     r.CreatedOn.Format(time.RFC3339),
		UpdatedOn:     r.UpdatedOn.Format(time.RFC3339),
	}
	if notes != nil {
		resp.Details = &notesResponse{
			Quantity:       notes.Notes.Quantity,
			DurationMonths: notes.Notes.DurationMonths,
			AddonName:      notes.Notes.AddonName,
			AddonCost:      utils.FormatAmount(notes.Notes.AddonCost),
			Parsed:         notes.Parsed,
		}
	}
	return resp
}

func mapReservations(list []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, mapReservation(&list[i], nil))
	}
	return out
}

func mapIdentity(id *domain.Identity) identityResponse {
	return identityResponse{
		UserID:      id.UserID,
		Role:        string(id.Role),
		DisplayName: id.DisplayName,
		Admin:       id.IsAdmin(),
	}
}
