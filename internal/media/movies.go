package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Movie returns a movie by ID.
func (s *Store) Movie(ctx context.Context, id int64) (*Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, year, tmdb_id, imdb_id, profile_id, monitored, added_at
		   FROM movies WHERE id = ?`, id)

	var m Movie
	var year, tmdbID, profileID sql.NullInt64
	var imdbID sql.NullString
	var monitored int64
	err := row.Scan(&m.ID, &m.Title, &year, &tmdbID, &imdbID, &profileID, &monitored, &m.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}

	m.Year = int(year.Int64)
	m.TmdbID = int(tmdbID.Int64)
	m.ImdbID = imdbID.String
	m.ProfileID = profileID.Int64
	m.Monitored = monitored == 1
	return &m, nil
}

// CreateMovie stores a movie and returns its ID.
func (s *Store) CreateMovie(ctx context.Context, m *Movie) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (title, year, tmdb_id, imdb_id, profile_id, monitored)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Title, nullInt(int64(m.Year)), nullInt(int64(m.TmdbID)), nullStr(m.ImdbID),
		nullInt(m.ProfileID), boolToInt(m.Monitored))
	if err != nil {
		return 0, fmt.Errorf("create movie: %w", err)
	}
	return res.LastInsertId()
}

// SetMovieProfile assigns a scoring profile to a movie. A zero profileID
// clears the assignment.
func (s *Store) SetMovieProfile(ctx context.Context, movieID, profileID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE movies SET profile_id = ? WHERE id = ?`, nullInt(profileID), movieID)
	if err != nil {
		return fmt.Errorf("set movie profile: %w", err)
	}
	return nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullStr(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
