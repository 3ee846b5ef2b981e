package pricing

import (
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
)

// Flat surcharges and the platform commission. All money is integer cents.
const (
	DeliveryFeeCents  int64 = 5000
	SetupFeeCents     int64 = 7500
	ServiceFeePercent int64 = 10
)

// Breakdown is the full price breakdown for a booking. It is computed
// once at creation time and persisted as-is.
type Breakdown struct {
	RentalDays       int32 `json:"rental_days"`
	ItemPriceCents   int64 `json:"item_price_cents"`
	AddOnsPriceCents int64 `json:"addons_price_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	SetupFeeCents    int64 `json:"setup_fee_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	ServiceFeeCents  int64 `json:"service_fee_cents"`
	TotalPriceCents  int64 `json:"total_price_cents"`
}

// RentalDays returns the billable day count for a date range: the ceiling
// of the difference in whole days, never less than 1. The end date must be
// strictly after the start date.
func RentalDays(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	const day = 24 * time.Hour
	d := end.Sub(start)
	days := int32(d / day)
	if d%day > 0 {
		days++ // any partial day counts as a full day
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// Quote computes the price breakdown for a booking of the given listing.
// variant may be nil. addons are the resolved add-on rows for the caller's
// selection; each contributes its flat price once regardless of duration.
func Quote(listing *domain.Listing, variant *domain.ListingVariant, addons []domain.ListingAddOn, start, end time.Time, delivery, setup bool) (Breakdown, error) {
	days, err := RentalDays(start, end)
	if err != nil {
		return Breakdown{}, err
	}

	perDay := listing.BasePriceCents
	if variant != nil {
		perDay += variant.PriceModifierCents
	}

	var addonsTotal int64
	for _, a := range addons {
		addonsTotal += a.PriceCents
	}

	b := Breakdown{
		RentalDays:       days,
		ItemPriceCents:   perDay * int64(days),
		AddOnsPriceCents: addonsTotal,
	}
	if delivery {
		b.DeliveryFeeCents = DeliveryFeeCents
	}
	if setup {
		b.SetupFeeCents = SetupFeeCents
	}
	b.SubtotalCents = b.ItemPriceCents + b.AddOnsPriceCents + b.DeliveryFeeCents + b.SetupFeeCents
	b.ServiceFeeCents = serviceFee(b.SubtotalCents)
	b.TotalPriceCents = b.SubtotalCents + b.ServiceFeeCents
	return b, nil
}

// serviceFee is the platform commission on the subtotal, rounded half-up
// to the nearest cent so repeated reads always see the same value.
func serviceFee(subtotalCents int64) int64 {
	return (subtotalCents*ServiceFeePercent + 50) / 100
}
