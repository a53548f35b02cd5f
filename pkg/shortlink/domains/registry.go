// Package domains manages custom domain claims. A claim reserves the
// name globally; it does not gate link creation or redirection under
// that domain.
package domains

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/store"
)

// ErrDomainTaken means the domain is already claimed, by any user.
var ErrDomainTaken = errors.New("domain already registered")

// unavailable tags a storage-level failure with the same sentinel the
// link store uses, so handlers map the whole fault class uniformly.
func unavailable(op string, err error) error {
	return fmt.Errorf("domains: %s: %w", op, errors.Join(store.ErrStoreUnavailable, err))
}

// Registry owns the custom_domains table.
type Registry struct {
	db  *gorm.DB
	ids *ids.Generator
}

// NewRegistry creates a registry.
func NewRegistry(db *gorm.DB, gen *ids.Generator) *Registry {
	return &Registry{db: db, ids: gen}
}

// Claim registers a domain for a user. Uniqueness is global: the unique
// index on the domain column rejects a second claim regardless of owner.
func (r *Registry) Claim(ctx context.Context, domain, userID, displayName string) (*models.CustomDomain, error) {
	claim := &models.CustomDomain{
		ID:          r.ids.Next(),
		Domain:      domain,
		UserID:      userID,
		DisplayName: displayName,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDomainTaken
		}
		return nil, unavailable("claim "+domain, err)
	}
	return claim, nil
}

// ListAll returns registered domains, newest first.
func (r *Registry) ListAll(ctx context.Context, limit int) ([]models.CustomDomain, error) {
	var claims []models.CustomDomain
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, unavailable("list", err)
	}
	return claims, nil
}

// Exists reports whether a domain has been claimed.
func (r *Registry) Exists(ctx context.Context, domain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomDomain{}).
		Where("domain = ?", domain).
		Count(&count).Error
	if err != nil {
		return false, unavailable("exists "+domain, err)
	}
	return count > 0, nil
}
