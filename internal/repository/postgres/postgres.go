package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

// Store bundles all repository implementations over one *sql.DB.
type Store struct {
	UserRepository         repository.UserRepository
	ListingRepository      repository.ListingRepository
	BookingRepository      repository.BookingRepository
	RefundRepository       repository.RefundRepository
	NotificationRepository repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		UserRepository:         NewUserRepository(db),
		ListingRepository:      NewListingRepository(db),
		BookingRepository:      NewBookingRepository(db),
		RefundRepository:       NewRefundRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// mapError translates driver errors into domain error kinds.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}
