// Package media provides read and write access to tracked movies, series,
// episodes, their files, and scoring profiles.
package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/driftarr/driftarr/internal/quality"
)

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrSeriesNotFound  = errors.New("series not found")
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrFileNotFound    = errors.New("media file not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Store provides access to media data.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore creates a media store.
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "media").Logger(),
	}
}

// ProfileByID returns the profile with the given ID.
func (s *Store) ProfileByID(ctx context.Context, id int64) (*quality.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT id, name, upgrades_allowed, min_score_increment, upgrade_until_score,
		        min_score, is_default, items, created_at, updated_at
		   FROM profiles WHERE id = ?`, id))
}

// DefaultProfile returns the profile flagged as default.
func (s *Store) DefaultProfile(ctx context.Context) (*quality.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT id, name, upgrades_allowed, min_score_increment, upgrade_until_score,
		        min_score, is_default, items, created_at, updated_at
		   FROM profiles WHERE is_default = 1 ORDER BY id LIMIT 1`))
}

// AnyProfile returns the first profile that exists at all.
func (s *Store) AnyProfile(ctx context.Context) (*quality.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT id, name, upgrades_allowed, min_score_increment, upgrade_until_score,
		        min_score, is_default, items, created_at, updated_at
		   FROM profiles ORDER BY id LIMIT 1`))
}

// CreateProfile stores a profile and returns its ID.
func (s *Store) CreateProfile(ctx context.Context, p *quality.Profile) (int64, error) {
	items, err := quality.SerializeItems(p.Items)
	if err != nil {
		return 0, fmt.Errorf("serialize profile items: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, upgrades_allowed, min_score_increment, upgrade_until_score,
		                       min_score, is_default, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, boolToInt(p.UpgradesAllowed), p.MinScoreIncrement, p.UpgradeUntilScore,
		p.MinScore, boolToInt(p.IsDefault), items)
	if err != nil {
		return 0, fmt.Errorf("create profile: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) scanProfile(row *sql.Row) (*quality.Profile, error) {
	var p quality.Profile
	var upgradesAllowed, isDefault int64
	var items string
	err := row.Scan(&p.ID, &p.Name, &upgradesAllowed, &p.MinScoreIncrement,
		&p.UpgradeUntilScore, &p.MinScore, &isDefault, &items, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.UpgradesAllowed = upgradesAllowed == 1
	p.IsDefault = isDefault == 1

	p.Items, err = quality.DeserializeItems(items)
	if err != nil {
		return nil, fmt.Errorf("deserialize profile items: %w", err)
	}
	return &p, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
