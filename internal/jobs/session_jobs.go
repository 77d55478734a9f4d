package jobs

import "context"

// PurgeExpiredSessions removes sessions past their absolute expiry that were
// never presented again.
func (jr *JobRunner) PurgeExpiredSessions() {
	jr.runWithRecovery("PurgeExpiredSessions", func() {
		n, err := jr.repos.Sessions.DeleteExpired(context.Background(), jr.clock.Now())
		if err != nil {
			jr.log.Error("Failed to purge expired sessions", "error", err)
			return
		}
		jr.log.Info("Purged expired sessions", "count", n)
	})
}
