package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Series returns a series by ID.
func (s *Store) Series(ctx context.Context, id int64) (*Series, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, year, tvdb_id, imdb_id, profile_id, monitored, added_at
		   FROM series WHERE id = ?`, id)

	var sr Series
	var year, tvdbID, profileID sql.NullInt64
	var imdbID sql.NullString
	var monitored int64
	err := row.Scan(&sr.ID, &sr.Title, &year, &tvdbID, &imdbID, &profileID, &monitored, &sr.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("get series: %w", err)
	}

	sr.Year = int(year.Int64)
	sr.TvdbID = int(tvdbID.Int64)
	sr.ImdbID = imdbID.String
	sr.ProfileID = profileID.Int64
	sr.Monitored = monitored == 1
	return &sr, nil
}

// Episode returns an episode by ID.
func (s *Store) Episode(ctx context.Context, id int64) (*Episode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, series_id, season_number, episode_number, title, monitored
		   FROM episodes WHERE id = ?`, id)

	ep, err := scanEpisodeRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return ep, nil
}

// EpisodesBySeason returns all episodes for one season of a series.
func (s *Store) EpisodesBySeason(ctx context.Context, seriesID int64, seasonNumber int) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, series_id, season_number, episode_number, title, monitored
		   FROM episodes WHERE series_id = ? AND season_number = ?
		  ORDER BY episode_number`, seriesID, seasonNumber)
	if err != nil {
		return nil, fmt.Errorf("list season episodes: %w", err)
	}
	return collectEpisodes(rows)
}

// EpisodesBySeries returns all episodes of a series.
func (s *Store) EpisodesBySeries(ctx context.Context, seriesID int64) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, series_id, season_number, episode_number, title, monitored
		   FROM episodes WHERE series_id = ?
		  ORDER BY season_number, episode_number`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series episodes: %w", err)
	}
	return collectEpisodes(rows)
}

// EpisodesByIDs returns the episodes matching the given IDs. Missing IDs are
// silently absent from the result.
func (s *Store) EpisodesByIDs(ctx context.Context, ids []int64) ([]Episode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, series_id, season_number, episode_number, title, monitored
		   FROM episodes WHERE id IN (`+placeholders+`)
		  ORDER BY season_number, episode_number`, args...)
	if err != nil {
		return nil, fmt.Errorf("list episodes by ids: %w", err)
	}
	return collectEpisodes(rows)
}

// CreateSeries stores a series and returns its ID.
func (s *Store) CreateSeries(ctx context.Context, sr *Series) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO series (title, year, tvdb_id, imdb_id, profile_id, monitored)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sr.Title, nullInt(int64(sr.Year)), nullInt(int64(sr.TvdbID)), nullStr(sr.ImdbID),
		nullInt(sr.ProfileID), boolToInt(sr.Monitored))
	if err != nil {
		return 0, fmt.Errorf("create series: %w", err)
	}
	return res.LastInsertId()
}

// CreateEpisode stores an episode and returns its ID.
func (s *Store) CreateEpisode(ctx context.Context, ep *Episode) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (series_id, season_number, episode_number, title, monitored)
		 VALUES (?, ?, ?, ?, ?)`,
		ep.SeriesID, ep.SeasonNumber, ep.EpisodeNumber, nullStr(ep.Title), boolToInt(ep.Monitored))
	if err != nil {
		return 0, fmt.Errorf("create episode: %w", err)
	}
	return res.LastInsertId()
}

func scanEpisodeRow(scan func(...any) error) (*Episode, error) {
	var ep Episode
	var title sql.NullString
	var monitored int64
	if err := scan(&ep.ID, &ep.SeriesID, &ep.SeasonNumber, &ep.EpisodeNumber, &title, &monitored); err != nil {
		return nil, err
	}
	ep.Title = title.String
	ep.Monitored = monitored == 1
	return &ep, nil
}

func collectEpisodes(rows *sql.Rows) ([]Episode, error) {
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		ep, err := scanEpisodeRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, *ep)
	}
	return episodes, rows.Err()
}
