package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, lender_id, title, description, category, condition, base_price_cents, is_active, created_on, updated_on`

func scanListing(row interface{ Scan(...any) error }, l *domain.Listing) error {
	return row.Scan(&l.ID, &l.LenderID, &l.Title, &l.Description, &l.Category, &l.Condition, &l.BasePriceCents, &l.IsActive, &l.CreatedOn, &l.UpdatedOn)
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if err := scanListing(r.db.QueryRowContext(ctx, query, id), l); err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *listingRepository) ListByLender(ctx context.Context, lenderID int32, page, pageSize int32) ([]domain.Listing, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM listings WHERE lender_id = $1`, lenderID).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE lender_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, lenderID, pageSize, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}

func (r *listingRepository) Search(ctx context.Context, query string, maxPriceCents int64, conditions []string, page, pageSize int32) ([]domain.Listing, int32, error) {
	offset := (page - 1) * pageSize

	where := `WHERE is_active = true`
	args := []any{}
	argIdx := 1
	if query != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+query+"%")
		argIdx++
	}
	if maxPriceCents > 0 {
		where += fmt.Sprintf(" AND base_price_cents <= $%d", argIdx)
		args = append(args, maxPriceCents)
		argIdx++
	}
	if len(conditions) > 0 {
		where += fmt.Sprintf(" AND condition = ANY($%d)", argIdx)
		args = append(args, pq.Array(conditions))
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM listings `+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	sqlStr := `SELECT ` + listingColumns + ` FROM listings ` + where +
		fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}

func (r *listingRepository) GetVariant(ctx context.Context, listingID, variantID int32) (*domain.ListingVariant, error) {
	v := &domain.ListingVariant{}
	query := `SELECT id, listing_id, name, price_modifier_cents FROM listing_variants WHERE id = $1 AND listing_id = $2`
	err := r.db.QueryRowContext(ctx, query, variantID, listingID).Scan(&v.ID, &v.ListingID, &v.Name, &v.PriceModifierCents)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *listingRepository) ListVariants(ctx context.Context, listingID int32) ([]domain.ListingVariant, error) {
	query := `SELECT id, listing_id, name, price_modifier_cents FROM listing_variants WHERE listing_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var variants []domain.ListingVariant
	for rows.Next() {
		var v domain.ListingVariant
		if err := rows.Scan(&v.ID, &v.ListingID, &v.Name, &v.PriceModifierCents); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// GetAddOns resolves the selected add-on ids, scoped to the listing so a
// caller cannot price in another listing's add-ons.
func (r *listingRepository) GetAddOns(ctx context.Context, listingID int32, addonIDs []int32) ([]domain.ListingAddOn, error) {
	if len(addonIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, listing_id, name, price_cents FROM listing_add_ons WHERE listing_id = $1 AND id = ANY($2)`
	rows, err := r.db.QueryContext(ctx, query, listingID, pq.Array(addonIDs))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var addons []domain.ListingAddOn
	for rows.Next() {
		var a domain.ListingAddOn
		if err := rows.Scan(&a.ID, &a.ListingID, &a.Name, &a.PriceCents); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

func (r *listingRepository) ListAddOns(ctx context.Context, listingID int32) ([]domain.ListingAddOn, error) {
	query := `SELECT id, listing_id, name, price_cents FROM listing_add_ons WHERE listing_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var addons []domain.ListingAddOn
	for rows.Next() {
		var a domain.ListingAddOn
		if err := rows.Scan(&a.ID, &a.ListingID, &a.Name, &a.PriceCents); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}
