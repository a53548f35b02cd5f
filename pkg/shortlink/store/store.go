// Package store implements the durable short-link table: creation with
// collision-free code/alias allocation, domain-scoped lookup, atomic
// click accounting, owner-guarded soft deletes, and aggregates.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jhopan/shortlink/pkg/shortlink/ids"
	"github.com/jhopan/shortlink/pkg/shortlink/models"
	"github.com/jhopan/shortlink/pkg/shortlink/shortcode"
)

// Store owns the short_links table.
type Store struct {
	db            *gorm.DB
	ids           *ids.Generator
	codeLength    int
	defaultDomain string
}

// New creates a store. codeLength <= 0 falls back to the generator's
// default; an empty defaultDomain falls back to models.DefaultDomain.
func New(db *gorm.DB, gen *ids.Generator, codeLength int, defaultDomain string) *Store {
	if defaultDomain == "" {
		defaultDomain = models.DefaultDomain
	}
	return &Store{db: db, ids: gen, codeLength: codeLength, defaultDomain: defaultDomain}
}

// DefaultDomain returns the scope used for links created without a
// domain and for lookups that name none.
func (s *Store) DefaultDomain() string {
	return s.defaultDomain
}

// Stats holds link/click aggregates.
type Stats struct {
	TotalLinks  int64 `json:"total_links"`
	TotalClicks int64 `json:"total_clicks"`
}

// Totals holds the system-wide counts shown on the admin dashboard.
type Totals struct {
	Links    int64 `json:"total_links"`
	Clicks   int64 `json:"total_clicks"`
	Creators int64 `json:"total_users"`
	Domains  int64 `json:"total_domains"`
}

// CreatorStats aggregates one creator's links and clicks.
type CreatorStats struct {
	UserID      string `json:"user_id"`
	LinkCount   int64  `json:"link_count"`
	TotalClicks int64  `json:"total_clicks"`
}

// insertRetries bounds re-generation after an insert lost the race for a
// freshly generated code. Alias conflicts never retry.
const insertRetries = 5

// CreateLink persists a new link. With a custom alias, the alias is
// checked for prior active use within the domain and stored as the
// short code as well; without one, a fresh code is generated against the
// same domain. Check and insert run in one transaction, and the
// composite unique index on (domain, short_code) backs the check, so two
// concurrent creations of the same key cannot both commit. A generated
// code that loses the insert race is not an alias conflict: the loop
// draws a new code and tries again.
func (s *Store) CreateLink(ctx context.Context, originalURL, customAlias, domain, createdBy string) (*models.Link, error) {
	if domain == "" {
		domain = s.defaultDomain
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		code := customAlias
		if code == "" {
			generated, err := shortcode.Generate(s.codeLength, func(candidate string) (bool, error) {
				return s.CodeExists(ctx, candidate, domain)
			})
			if err != nil {
				return nil, err
			}
			code = generated
		}

		link := &models.Link{
			ID:          s.ids.Next(),
			ShortCode:   code,
			OriginalURL: originalURL,
			CustomAlias: customAlias,
			Domain:      domain,
			CreatedBy:   createdBy,
			IsActive:    true,
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if customAlias != "" {
				var count int64
				if err := tx.Model(&models.Link{}).
					Where("(short_code = ? OR custom_alias = ?) AND domain = ? AND is_active = ?",
						customAlias, customAlias, domain, true).
					Count(&count).Error; err != nil {
					return unavailable("check alias", err)
				}
				if count > 0 {
					return ErrAliasTaken
				}
			}
			if err := tx.Create(link).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					if customAlias != "" {
						return ErrAliasTaken
					}
					return errCodeCollision
				}
				return unavailable("create link", err)
			}
			return nil
		})
		if errors.Is(err, errCodeCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return link, nil
	}

	return nil, shortcode.ErrCodespaceExhausted
}

// Lookup returns the active link matching key (short code or custom
// alias) within domain, or ErrNotFound. Conflicting matches between a
// code and another row's alias are prevented by the creation invariant,
// not resolved here.
func (s *Store) Lookup(ctx context.Context, key, domain string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).
		Where("(short_code = ? OR custom_alias = ?) AND domain = ? AND is_active = ?",
			key, key, domain, true).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, unavailable("lookup", err)
	}
	return &link, nil
}

// IncrementClicks adds exactly one click to the matching active link.
// The increment happens inside the UPDATE, so concurrent calls
// accumulate without a read-modify-write race.
func (s *Store) IncrementClicks(ctx context.Context, key, domain string) error {
	result := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("(short_code = ? OR custom_alias = ?) AND domain = ? AND is_active = ?",
			key, key, domain, true).
		Update("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return unavailable("increment clicks", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the matching active link, but only when
// requesterID matches the stored creator. Ownership is enforced in the
// WHERE clause: a mismatch changes nothing and returns false.
func (s *Store) Deactivate(ctx context.Context, key, domain, requesterID string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("(short_code = ? OR custom_alias = ?) AND domain = ? AND created_by = ? AND is_active = ?",
			key, key, domain, requesterID, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, unavailable("deactivate", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByCreator returns the creator's active links, newest first.
func (s *Store) ListByCreator(ctx context.Context, creatorID string, limit int) ([]models.Link, error) {
	var links []models.Link
	err := s.db.WithContext(ctx).
		Where("created_by = ? AND is_active = ?", creatorID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, unavailable("list by creator", err)
	}
	return links, nil
}

// RecentLinks returns the newest active links across all creators.
func (s *Store) RecentLinks(ctx context.Context, limit int) ([]models.Link, error) {
	var links []models.Link
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, unavailable("recent links", err)
	}
	return links, nil
}

// ActiveCreators returns per-creator aggregates ordered by link count.
func (s *Store) ActiveCreators(ctx context.Context, limit int) ([]CreatorStats, error) {
	var rows []CreatorStats
	err := s.db.WithContext(ctx).Model(&models.Link{}).
		Select("created_by AS user_id, COUNT(*) AS link_count, COALESCE(SUM(clicks), 0) AS total_clicks").
		Where("is_active = ?", true).
		Group("created_by").
		Order("link_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, unavailable("active creators", err)
	}
	return rows, nil
}

// AggregateStats sums active links and their clicks, globally when
// creatorID is empty and scoped to one creator otherwise.
func (s *Store) AggregateStats(ctx context.Context, creatorID string) (Stats, error) {
	var stats Stats
	query := s.db.WithContext(ctx).Model(&models.Link{}).
		Select("COUNT(*) AS total_links, COALESCE(SUM(clicks), 0) AS total_clicks").
		Where("is_active = ?", true)
	if creatorID != "" {
		query = query.Where("created_by = ?", creatorID)
	}
	if err := query.Scan(&stats).Error; err != nil {
		return Stats{}, unavailable("aggregate stats", err)
	}
	return stats, nil
}

// Counts returns the admin dashboard totals.
func (s *Store) Counts(ctx context.Context) (Totals, error) {
	var t Totals
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Link{}).Where("is_active = ?", true).Count(&t.Links).Error; err != nil {
		return Totals{}, unavailable("count links", err)
	}
	if err := db.Model(&models.Link{}).Where("is_active = ?", true).
		Select("COALESCE(SUM(clicks), 0)").Scan(&t.Clicks).Error; err != nil {
		return Totals{}, unavailable("count clicks", err)
	}
	if err := db.Model(&models.Link{}).Where("is_active = ?", true).
		Distinct("created_by").Count(&t.Creators).Error; err != nil {
		return Totals{}, unavailable("count creators", err)
	}
	if err := db.Model(&models.CustomDomain{}).Count(&t.Domains).Error; err != nil {
		return Totals{}, unavailable("count domains", err)
	}
	return t, nil
}

// CodeExists reports whether any row (active or not) holds the code or
// alias within domain. Soft-deleted rows keep their slot so a retired
// code is never handed out again. Read-only: generation never mutates
// state.
func (s *Store) CodeExists(ctx context.Context, code, domain string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("(short_code = ? OR custom_alias = ?) AND domain = ?", code, code, domain).
		Count(&count).Error
	if err != nil {
		return false, unavailable("code exists", err)
	}
	return count > 0, nil
}

// Ping checks that the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}
