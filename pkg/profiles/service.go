package profiles

import (
	"context"
	"time"

	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles profile operations. Profiles mirror identity-provider
// users; rows are created lazily the first time an authenticated user shows
// up, never through a signup flow.
type Service struct {
	db *bun.DB
}

// NewService creates a new profiles service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Ensure creates the profile row for an identity-provider user id, or
// refreshes its username if the row already exists. Display name and avatar
// are user-managed and untouched on refresh.
func (s *Service) Ensure(ctx context.Context, id, username string) (*models.Profile, error) {
	if id == "" {
		return nil, errcodes.ValidationError(`"id" is required`)
	}

	now := time.Now()
	profile := &models.Profile{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.NewInsert().
		Model(profile).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return profile, nil
}

// Retrieve gets a profile by the identity-provider user id.
func (s *Service) Retrieve(ctx context.Context, id string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.NewSelect().
		Model(profile).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Profile")
	}
	return profile, nil
}

// RetrieveByUsername gets a profile by username, case-insensitively.
func (s *Service) RetrieveByUsername(ctx context.Context, username string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.NewSelect().
		Model(profile).
		Where("p.username = ? COLLATE NOCASE", username).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Profile")
	}
	return profile, nil
}

// UpdateOptions contains options for updating a profile.
type UpdateOptions struct {
	Columns []string
}

// Update updates a profile. Only the columns named in opts are written.
func (s *Service) Update(ctx context.Context, profile *models.Profile, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	profile.UpdatedAt = time.Now()
	opts.Columns = append(opts.Columns, "updated_at")
	_, err := s.db.NewUpdate().
		Model(profile).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}
