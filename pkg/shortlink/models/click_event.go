package models

import "time"

// ClickEvent is one resolution of a short link. Append-only: events are
// never updated or deleted. ShortCode is a non-owning reference back to
// the link whose counter was incremented.
type ClickEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ShortCode string    `gorm:"index;not null" json:"short_code"`
	ClickedAt time.Time `gorm:"autoCreateTime" json:"clicked_at"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"type:text" json:"user_agent,omitempty"`
	Referer   string    `gorm:"type:text" json:"referer,omitempty"`
}

// TableName overrides the table name
func (ClickEvent) TableName() string {
	return "click_events"
}
