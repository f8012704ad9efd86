// Package blocklist records known-bad releases and gates candidates against
// them without rescoring.
package blocklist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/driftarr/driftarr/internal/release"
)

// ErrEntryNotFound is returned when a blocklist entry does not exist.
var ErrEntryNotFound = errors.New("blocklist entry not found")

// Service provides blocklist checks and management.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a blocklist service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "blocklist").Logger(),
	}
}

// IsSatisfied checks a candidate against the blocklist for a scope. Matching
// precedence: info hash (case-insensitive), then exact title. Entries with no
// movie/series scope apply globally; expired entries never match.
func (s *Service) IsSatisfied(ctx context.Context, candidate release.Candidate, scope Scope) (Verdict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, info_hash, movie_id, series_id, reason, expires_at
		   FROM blocklist
		  WHERE (movie_id IS NULL AND series_id IS NULL)
		     OR (? > 0 AND movie_id = ?)
		     OR (? > 0 AND series_id = ?)`,
		scope.MovieID, scope.MovieID, scope.SeriesID, scope.SeriesID)
	if err != nil {
		return Verdict{}, fmt.Errorf("query blocklist: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var hashMatch, titleMatch *Entry
	for rows.Next() {
		var e Entry
		var title, infoHash, reason sql.NullString
		var movieID, seriesID sql.NullInt64
		var expiresAt sql.NullTime
		if err := rows.Scan(&e.ID, &title, &infoHash, &movieID, &seriesID, &reason, &expiresAt); err != nil {
			return Verdict{}, fmt.Errorf("scan blocklist entry: %w", err)
		}
		e.Title = title.String
		e.InfoHash = infoHash.String
		e.MovieID = movieID.Int64
		e.SeriesID = seriesID.Int64
		e.Reason = reason.String
		if expiresAt.Valid {
			if expiresAt.Time.Before(now) {
				continue
			}
			t := expiresAt.Time
			e.ExpiresAt = &t
		}

		if hashMatch == nil && e.InfoHash != "" && candidate.InfoHash != "" &&
			strings.EqualFold(e.InfoHash, candidate.InfoHash) {
			match := e
			hashMatch = &match
		}
		if titleMatch == nil && e.Title != "" && e.Title == candidate.Title {
			match := e
			titleMatch = &match
		}
	}
	if err := rows.Err(); err != nil {
		return Verdict{}, err
	}

	match := hashMatch
	if match == nil {
		match = titleMatch
	}
	if match == nil {
		return Verdict{Accepted: true}, nil
	}

	reason := match.Reason
	if reason == "" {
		reason = "release was previously blocklisted"
	}
	return Verdict{Accepted: false, Reason: reason}, nil
}

// Add creates a blocklist entry and returns it.
func (s *Service) Add(ctx context.Context, input AddInput) (*Entry, error) {
	var expiresAt sql.NullTime
	if input.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *input.ExpiresAt, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blocklist (title, info_hash, indexer_id, movie_id, series_id, reason, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullStr(input.Title), nullStr(input.InfoHash), nullInt(input.IndexerID),
		nullInt(input.MovieID), nullInt(input.SeriesID), nullStr(input.Reason), expiresAt)
	if err != nil {
		return nil, fmt.Errorf("add blocklist entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", id).Str("title", input.Title).Msg("Blocklisted release")

	entry := &Entry{
		ID:        id,
		Title:     input.Title,
		InfoHash:  input.InfoHash,
		IndexerID: input.IndexerID,
		MovieID:   input.MovieID,
		SeriesID:  input.SeriesID,
		Reason:    input.Reason,
		ExpiresAt: input.ExpiresAt,
	}
	return entry, nil
}

// Remove deletes a blocklist entry.
func (s *Service) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blocklist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove blocklist entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// List returns blocklist entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, info_hash, indexer_id, movie_id, series_id, reason, created_at, expires_at
		   FROM blocklist ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list blocklist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, infoHash, reason sql.NullString
		var indexerID, movieID, seriesID sql.NullInt64
		var expiresAt sql.NullTime
		if err := rows.Scan(&e.ID, &title, &infoHash, &indexerID, &movieID, &seriesID,
			&reason, &e.CreatedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan blocklist entry: %w", err)
		}
		e.Title = title.String
		e.InfoHash = infoHash.String
		e.IndexerID = indexerID.Int64
		e.MovieID = movieID.Int64
		e.SeriesID = seriesID.Int64
		e.Reason = reason.String
		if expiresAt.Valid {
			t := expiresAt.Time
			e.ExpiresAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune removes expired entries and returns how many were deleted.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM blocklist WHERE expires_at IS NOT NULL AND expires_at < ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("prune blocklist: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info().Int64("removed", n).Msg("Pruned expired blocklist entries")
	}
	return n, nil
}

func nullStr(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
