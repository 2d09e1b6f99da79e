package jobs

import (
	"context"
	"strconv"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
)

// reminderSweep is the width of the block-until window each reminder run
// covers. It matches the default hourly schedule so every pending
// reservation is reminded once.
const reminderSweep = time.Hour

// SendActionReminders tells owners about pending reservations whose
// block-until falls in (now+lead-sweep, now+lead]. No status is written;
// expiry stays a read-time projection.
func (jr *JobRunner) SendActionReminders() {
	jr.runWithRecovery("SendActionReminders", func() {
		ctx := context.Background()
		deadline := jr.clock.Now().Add(jr.config.ReminderLead())

		pending, err := jr.resRepo.ListPendingBlockingBetween(ctx, deadline.Add(-reminderSweep), deadline)
		if err != nil {
			logger.Error("Failed to query pending reservations", "error", err)
			return
		}

		count := 0
		for _, r := range pending {
			attrs := map[string]string{
				"reservation_id": strconv.Itoa(int(r.ID)),
				"property_id":    strconv.Itoa(int(r.PropertyID)),
				"check_in":       r.CheckIn.Format(domain.DateLayout),
				"check_out":      r.CheckOut.Format(domain.DateLayout),
				"block_until":    r.BlockUntil.UTC().Format(time.RFC3339),
			}
			if err := jr.services.Notifier.Notify(ctx, domain.NotificationActionReminder, []int32{r.OwnerID}, attrs); err != nil {
				logger.Error("Failed to send action reminder",
					"reservation_id", r.ID,
					"owner_id", r.OwnerID,
					"error", err)
				continue
			}
			count++
			logger.Debug("Sent action reminder", "reservation_id", r.ID, "owner_id", r.OwnerID)
		}

		logger.Info("Action reminders sent", "count", count, "candidates", len(pending))
	})
}

// PurgeStaleSuggestions discards suggestion dialogs nobody finished in time
func (jr *JobRunner) PurgeStaleSuggestions() {
	jr.runWithRecovery("PurgeStaleSuggestions", func() {
		purged := jr.services.Suggestions.PurgeStale(context.Background())
		logger.Info("Purged stale suggestion requests", "count", purged)
	})
}
