package models

import "time"

// DefaultDomain is the implicit scope for links created without a domain.
const DefaultDomain = "default"

// Link represents one short-code -> destination mapping.
//
// ShortCode is unique per domain. When a custom alias is chosen it is
// stored in both CustomAlias and ShortCode, so the composite unique index
// on (domain, short_code) covers generated codes and aliases alike.
// Rows are immutable after creation except for Clicks (monotonic) and
// IsActive (one-way true -> false).
type Link struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ShortCode   string    `gorm:"uniqueIndex:idx_links_domain_code;index:idx_short_code;not null" json:"short_code"`
	OriginalURL string    `gorm:"not null" json:"original_url"`
	CustomAlias string    `gorm:"index:idx_custom_alias" json:"custom_alias,omitempty"`
	Domain      string    `gorm:"uniqueIndex:idx_links_domain_code;index:idx_domain;not null;default:default" json:"domain"`
	Clicks      int64     `gorm:"not null;default:0" json:"clicks"`
	CreatedBy   string    `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
}

// TableName overrides the table name
func (Link) TableName() string {
	return "short_links"
}

// ResolveKey returns the key this link is addressed by: the custom alias
// when present, the generated code otherwise.
func (l Link) ResolveKey() string {
	if l.CustomAlias != "" {
		return l.CustomAlias
	}
	return l.ShortCode
}
