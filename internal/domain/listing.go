package domain

import "time"

// Listing is read-only to the booking engine. The lender manages it
// elsewhere; bookings snapshot its prices at creation time.
type Listing struct {
	ID             int32     `json:"id"`
	LenderID       int32     `json:"lender_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Condition      string    `json:"condition"`
	BasePriceCents int64     `json:"base_price_cents"` // per rental day
	IsActive       bool      `json:"is_active"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// ListingVariant is a priced sub-option of a listing. Its modifier is
// added to the listing base price for every rental day.
type ListingVariant struct {
	ID                 int32  `json:"id"`
	ListingID          int32  `json:"listing_id"`
	Name               string `json:"name"`
	PriceModifierCents int64  `json:"price_modifier_cents"`
}

// ListingAddOn is a flat-priced extra charged once per booking.
type ListingAddOn struct {
	ID         int32  `json:"id"`
	ListingID  int32  `json:"listing_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}
