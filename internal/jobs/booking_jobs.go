package jobs

import (
	"context"

	"storage-rental-backend/internal/utils"
)

// CompleteElapsedBookings completes every confirmed, paid reservation whose
// end date has passed. A failure on one reservation does not stop the rest.
func (jr *JobRunner) CompleteElapsedBookings() {
	jr.runWithRecovery("CompleteElapsedBookings", func() {
		ctx := context.Background()
		today := utils.TruncateDay(jr.clock.Now())

		due, err := jr.repos.Reservations.ListCompletable(ctx, today)
		if err != nil {
			jr.log.Error("Failed to list completable reservations", "error", err)
			return
		}

		completed := 0
		for _, r := range due {
			if _, err := jr.services.Booking.Complete(ctx, r.ID); err != nil {
				jr.log.Error("Failed to complete reservation", "reservationID", r.ID, "unitID", r.UnitID, "error", err)
				continue
			}
			completed++
		}

		jr.log.Info("Completed elapsed reservations", "due", len(due), "completed", completed)
	})
}
