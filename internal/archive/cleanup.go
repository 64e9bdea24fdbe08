package archive

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// PurgeBefore deletes incidents that ended before cutoff.
func PurgeBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("ended_at < ?", cutoff).Delete(&IncidentRecord{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs a daily goroutine that deletes incidents older than
// retention. It returns when done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeBefore(db, time.Now().Add(-retention))
				if err != nil {
					slog.Error("incident cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("incident cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
