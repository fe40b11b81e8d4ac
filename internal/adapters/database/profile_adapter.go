package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

// ProfileAdapter implements the ProfileRepository interface
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new profile
func (a *ProfileAdapter) Create(ctx context.Context, profile *entities.Profile) error {
	record, err := a.profileRecord(profile)
	if err != nil {
		return err
	}

	query, args, err := a.db.Insert("profiles").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build profile insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create profile", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	query, args, err := a.db.From("profiles").
		Select("id", "flags", "interests", "values", "demographics", "is_active", "created_at", "updated_at").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build profile select query", err)
	}

	profile, err := a.scanProfile(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	return profile, nil
}

// GetByIDs retrieves multiple profiles by IDs, preserving the order of ids
func (a *ProfileAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Profile, error) {
	if len(ids) == 0 {
		return []*entities.Profile{}, nil
	}

	query, args, err := a.db.From("profiles").
		Select("id", "flags", "interests", "values", "demographics", "is_active", "created_at", "updated_at").
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build profiles select query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profiles", err)
	}
	defer rows.Close()

	byID := make(map[string]*entities.Profile, len(ids))
	for rows.Next() {
		profile, err := a.scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan profile", err)
		}
		byID[profile.ID] = profile
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate profiles", err)
	}

	// Preserve the caller's ordering; silently drop unknown IDs.
	out := make([]*entities.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Update updates a profile
func (a *ProfileAdapter) Update(ctx context.Context, profile *entities.Profile) error {
	record, err := a.profileRecord(profile)
	if err != nil {
		return err
	}
	delete(record, "id")
	delete(record, "created_at")
	record["updated_at"] = time.Now().UTC()

	query, args, err := a.db.Update("profiles").
		Set(record).
		Where(goqu.Ex{"id": profile.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build profile update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", profile.ID))
	}

	return nil
}

// List lists profiles matching the filter
func (a *ProfileAdapter) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	ds := a.db.From("profiles").
		Select("id", "flags", "interests", "values", "demographics", "is_active", "created_at", "updated_at").
		Order(goqu.I("created_at").Asc())

	if filter.ActiveOnly {
		ds = ds.Where(goqu.Ex{"is_active": true})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build profiles list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*entities.Profile
	for rows.Next() {
		profile, err := a.scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan profile", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate profiles", err)
	}

	return profiles, nil
}

func (a *ProfileAdapter) profileRecord(profile *entities.Profile) (goqu.Record, error) {
	if profile == nil || profile.ID == "" {
		return nil, apperrors.NewInvalidProfileError("profile is missing or has no id")
	}

	flags, err := json.Marshal(profile.Flags)
	if err != nil {
		return nil, apperrors.NewInvalidProfileError(fmt.Sprintf("flags for profile %s are not serializable", profile.ID))
	}
	demographics, err := json.Marshal(profile.Features.Demographics)
	if err != nil {
		return nil, apperrors.NewInvalidProfileError(fmt.Sprintf("demographics for profile %s are not serializable", profile.ID))
	}

	return goqu.Record{
		"id":           profile.ID,
		"flags":        flags,
		"interests":    pq.Array(profile.Features.Interests),
		"values":       pq.Array(profile.Features.Values),
		"demographics": demographics,
		"is_active":    profile.IsActive,
		"created_at":   profile.CreatedAt,
		"updated_at":   profile.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *ProfileAdapter) scanProfile(row rowScanner) (*entities.Profile, error) {
	profile := &entities.Profile{}
	var flags, demographics []byte
	var interests, values pq.StringArray

	err := row.Scan(
		&profile.ID,
		&flags,
		&interests,
		&values,
		&demographics,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &profile.Flags); err != nil {
			return nil, fmt.Errorf("failed to decode flags for profile %s: %w", profile.ID, err)
		}
	}
	if len(demographics) > 0 {
		if err := json.Unmarshal(demographics, &profile.Features.Demographics); err != nil {
			return nil, fmt.Errorf("failed to decode demographics for profile %s: %w", profile.ID, err)
		}
	}
	profile.Features.Interests = interests
	profile.Features.Values = values

	return profile, nil
}
