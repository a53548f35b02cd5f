// Package clicks appends immutable click events and keeps the owning
// link's counter in step with them.
package clicks

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
)

// ErrNoSuchLink means no active link matched the key, so nothing was
// recorded.
var ErrNoSuchLink = errors.New("clicks: no active link for key")

// Recorder owns the click_events table.
type Recorder struct {
	db  *gorm.DB
	ids *ids.Generator
}

// NewRecorder creates a recorder.
func NewRecorder(db *gorm.DB, gen *ids.Generator) *Recorder {
	return &Recorder{db: db, ids: gen}
}

// Record increments the matching active link's counter and appends one
// click event. Both writes run in a single transaction: if the link does
// not exist the transaction rolls back and ErrNoSuchLink is returned, so
// the event log never drifts from the counters.
func (r *Recorder) Record(ctx context.Context, key, domain, ip, userAgent, referer string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Link{}).
			Where("(short_code = ? OR custom_alias = ?) AND domain = ? AND is_active = ?",
				key, key, domain, true).
			Update("clicks", gorm.Expr("clicks + 1"))
		if result.Error != nil {
			return fmt.Errorf("clicks: increment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNoSuchLink
		}

		event := models.ClickEvent{
			ID:        r.ids.Next(),
			ShortCode: key,
			IPAddress: ip,
			UserAgent: userAgent,
			Referer:   referer,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("clicks: append event: %w", err)
		}
		return nil
	})
}

// CountForCode returns the number of recorded events for a code.
func (r *Recorder) CountForCode(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClickEvent{}).
		Where("short_code = ?", code).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("clicks: count events: %w", err)
	}
	return count, nil
}
