package service

import (
	"context"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{listingRepo: listingRepo}
}

func (s *listingService) GetListing(ctx context.Context, id int32) (*domain.Listing, []domain.ListingVariant, []domain.ListingAddOn, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	variants, err := s.listingRepo.ListVariants(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	addons, err := s.listingRepo.ListAddOns(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return listing, variants, addons, nil
}

func (s *listingService) SearchListings(ctx context.Context, query string, maxPriceCents int64, conditions []string, page, pageSize int32) ([]domain.Listing, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.listingRepo.Search(ctx, query, maxPriceCents, conditions, page, pageSize)
}
