package models

import "time"

// CustomDomain represents a domain name claimed by a user. Claims are
// globally unique regardless of owner. Registration is provisioning
// metadata only: it does not gate link creation or redirection.
type CustomDomain struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Domain      string    `gorm:"uniqueIndex;not null" json:"domain"`
	UserID      string    `gorm:"not null" json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides the table name
func (CustomDomain) TableName() string {
	return "custom_domains"
}
