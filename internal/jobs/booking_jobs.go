package jobs

import (
	"context"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
)

const dateLayout = "2006-01-02"

// SendOverdueReturnReminders notifies both parties of active bookings
// whose end date has passed. Completion stays a lender-only action; the
// job only reminds, it never moves the state machine.
func (jr *JobRunner) SendOverdueReturnReminders() {
	jr.runWithRecovery("SendOverdueReturnReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format(dateLayout)

		bookings, err := jr.bookingRepo.ListActiveEndedBefore(ctx, today)
		if err != nil {
			logger.Error("overdue booking query failed", "error", err)
			return
		}

		for _, b := range bookings {
			title := jr.listingTitle(ctx, b.ListingID)
			endDate := b.EndDate.Format(dateLayout)

			for _, userID := range []int32{b.RenterID, b.LenderID} {
				note := &domain.Notification{
					UserID:  userID,
					Title:   "Rental overdue",
					Message: fmt.Sprintf("The rental of %q was due back on %s", title, endDate),
					Attributes: map[string]string{
						"type":       "BOOKING_OVERDUE",
						"booking_id": fmt.Sprintf("%d", b.ID),
					},
				}
				if err := jr.noteRepo.Create(ctx, note); err != nil {
					logger.Warn("overdue notification failed", "booking_id", b.ID, "user_id", userID, "error", err)
				}
			}

			if renter, err := jr.userRepo.GetByID(ctx, b.RenterID); err == nil {
				if err := jr.emailSvc.SendReturnReminder(ctx, renter.Email, title, endDate); err != nil {
					logger.Warn("return reminder email failed", "booking_id", b.ID, "error", err)
				}
			}
		}
		logger.Info("overdue reminders processed", "count", len(bookings))
	})
}

// SendUpcomingStartReminders notifies renters of confirmed bookings that
// start tomorrow.
func (jr *JobRunner) SendUpcomingStartReminders() {
	jr.runWithRecovery("SendUpcomingStartReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().UTC().Add(24 * time.Hour).Format(dateLayout)

		bookings, err := jr.bookingRepo.ListConfirmedStartingOn(ctx, tomorrow)
		if err != nil {
			logger.Error("upcoming booking query failed", "error", err)
			return
		}

		for _, b := range bookings {
			title := jr.listingTitle(ctx, b.ListingID)
			startDate := b.StartDate.Format(dateLayout)

			note := &domain.Notification{
				UserID:  b.RenterID,
				Title:   "Rental starts tomorrow",
				Message: fmt.Sprintf("Your rental of %q starts on %s", title, startDate),
				Attributes: map[string]string{
					"type":       "BOOKING_STARTING",
					"booking_id": fmt.Sprintf("%d", b.ID),
				},
			}
			if err := jr.noteRepo.Create(ctx, note); err != nil {
				logger.Warn("start reminder notification failed", "booking_id", b.ID, "error", err)
			}

			if renter, err := jr.userRepo.GetByID(ctx, b.RenterID); err == nil {
				if err := jr.emailSvc.SendStartReminder(ctx, renter.Email, title, startDate); err != nil {
					logger.Warn("start reminder email failed", "booking_id", b.ID, "error", err)
				}
			}
		}
		logger.Info("start reminders processed", "count", len(bookings))
	})
}

func (jr *JobRunner) listingTitle(ctx context.Context, listingID int32) string {
	if listing, err := jr.listingRepo.GetByID(ctx, listingID); err == nil {
		return listing.Title
	}
	return fmt.Sprintf("listing %d", listingID)
}
