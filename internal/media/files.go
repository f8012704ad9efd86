package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MovieFile returns the current file for a movie, or nil when there is none.
func (s *Store) MovieFile(ctx context.Context, movieID int64) (*MediaFile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, movie_id, series_id, relative_path, scene_name, size, info_hash
		   FROM media_files WHERE movie_id = ? ORDER BY id LIMIT 1`, movieID)

	f, err := scanFileRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie file: %w", err)
	}
	return f, nil
}

// EpisodeFilesBySeries returns every episode file for a series, with the
// episodes each file covers, in one batch.
func (s *Store) EpisodeFilesBySeries(ctx context.Context, seriesID int64) ([]MediaFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.id, f.movie_id, f.series_id, f.relative_path, f.scene_name, f.size, f.info_hash,
		        l.episode_id
		   FROM media_files f
		   JOIN episode_file_links l ON l.file_id = f.id
		  WHERE f.series_id = ?
		  ORDER BY f.id, l.episode_id`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series files: %w", err)
	}
	defer rows.Close()

	var files []MediaFile
	var current *MediaFile
	for rows.Next() {
		var f MediaFile
		var movieID, fileSeriesID sql.NullInt64
		var sceneName, infoHash sql.NullString
		var episodeID int64
		if err := rows.Scan(&f.ID, &movieID, &fileSeriesID, &f.RelativePath,
			&sceneName, &f.Size, &infoHash, &episodeID); err != nil {
			return nil, fmt.Errorf("scan series file: %w", err)
		}
		f.MovieID = movieID.Int64
		f.SeriesID = fileSeriesID.Int64
		f.SceneName = sceneName.String
		f.InfoHash = infoHash.String

		if current != nil && current.ID == f.ID {
			current.EpisodeIDs = append(current.EpisodeIDs, episodeID)
			continue
		}
		f.EpisodeIDs = []int64{episodeID}
		files = append(files, f)
		current = &files[len(files)-1]
	}
	return files, rows.Err()
}

// CreateMovieFile stores a file for a movie and returns its ID.
func (s *Store) CreateMovieFile(ctx context.Context, f *MediaFile) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO media_files (movie_id, relative_path, scene_name, size, info_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		f.MovieID, f.RelativePath, nullStr(f.SceneName), f.Size, nullStr(f.InfoHash))
	if err != nil {
		return 0, fmt.Errorf("create movie file: %w", err)
	}
	return res.LastInsertId()
}

// CreateEpisodeFile stores a file for one-or-more episodes of a series and
// returns its ID. The file and its episode links are written atomically.
func (s *Store) CreateEpisodeFile(ctx context.Context, f *MediaFile) (int64, error) {
	if len(f.EpisodeIDs) == 0 {
		return 0, fmt.Errorf("episode file needs at least one episode")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO media_files (series_id, relative_path, scene_name, size, info_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		f.SeriesID, f.RelativePath, nullStr(f.SceneName), f.Size, nullStr(f.InfoHash))
	if err != nil {
		return 0, fmt.Errorf("create episode file: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, episodeID := range f.EpisodeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO episode_file_links (file_id, episode_id) VALUES (?, ?)`,
			fileID, episodeID); err != nil {
			return 0, fmt.Errorf("link episode %d: %w", episodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return fileID, nil
}

// DeleteFile removes a file and its episode links.
func (s *Store) DeleteFile(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFileNotFound
	}
	return nil
}

func scanFileRow(scan func(...any) error) (*MediaFile, error) {
	var f MediaFile
	var movieID, seriesID sql.NullInt64
	var sceneName, infoHash sql.NullString
	if err := scan(&f.ID, &movieID, &seriesID, &f.RelativePath, &sceneName, &f.Size, &infoHash); err != nil {
		return nil, err
	}
	f.MovieID = movieID.Int64
	f.SeriesID = seriesID.Int64
	f.SceneName = sceneName.String
	f.InfoHash = infoHash.String
	return &f, nil
}
