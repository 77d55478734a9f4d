package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/repository"
	"storage-rental-backend/internal/utils"
)

const noAddonKey = "none"

type pricingService struct {
	units  repository.UnitRepository
	rates  utils.PriceRates
	addons []domain.Addon
	byKey  map[string]domain.Addon
}

func NewPricingService(units repository.UnitRepository, rates utils.PriceRates, addons []domain.Addon) PricingService {
	byKey := make(map[string]domain.Addon, len(addons))
	for _, a := range addons {
		byKey[strings.ToLower(a.Key)] = a
	}
	return &pricingService{units: units, rates: rates, addons: addons, byKey: byKey}
}

func (s *pricingService) Quote(ctx context.Context, unitID int32, quantity, durationMonths int, addonKey string) (*domain.PriceBreakdown, error) {
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	breakdown, _, err := s.QuoteUnit(unit, quantity, durationMonths, addonKey)
	return breakdown, err
}

func (s *pricingService) QuoteUnit(unit *domain.Unit, quantity, durationMonths int, addonKey string) (*domain.PriceBreakdown, *domain.Addon, error) {
	addon, err := s.resolveAddon(addonKey)
	if err != nil {
		return nil, nil, err
	}
	breakdown, err := utils.CalculatePrice(s.rates, unit.BaseMonthlyRate, addon.Rate, quantity, durationMonths)
	if err != nil {
		return nil, nil, err
	}
	return &breakdown, addon, nil
}

func (s *pricingService) ValidateInput(quantity, durationMonths int, addonKey string) error {
	if err := utils.ValidateQuoteInput(quantity, durationMonths); err != nil {
		return err
	}
	_, err := s.resolveAddon(addonKey)
	return err
}

func (s *pricingService) resolveAddon(key string) (*domain.Addon, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == noAddonKey {
		return &domain.Addon{Key: noAddonKey, Name: noAddonKey, Rate: decimal.Zero}, nil
	}
	a, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown add-on %q", domain.ErrInvalidQuote, key)
	}
	return &a, nil
}

func (s *pricingService) Addons() []domain.Addon {
	out := make([]domain.Addon, len(s.addons))
	copy(out, s.addons)
	return out
}
