package media

import "time"

// Movie is a tracked movie.
type Movie struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	TmdbID    int       `json:"tmdbId,omitempty"`
	ImdbID    string    `json:"imdbId,omitempty"`
	ProfileID int64     `json:"profileId,omitempty"` // 0 = no assigned profile
	Monitored bool      `json:"monitored"`
	AddedAt   time.Time `json:"addedAt"`
}

// Series is a tracked TV series.
type Series struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	TvdbID    int       `json:"tvdbId,omitempty"`
	ImdbID    string    `json:"imdbId,omitempty"`
	ProfileID int64     `json:"profileId,omitempty"` // 0 = no assigned profile
	Monitored bool      `json:"monitored"`
	AddedAt   time.Time `json:"addedAt"`
}

// Episode is one episode of a series.
type Episode struct {
	ID            int64  `json:"id"`
	SeriesID      int64  `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title,omitempty"`
	Monitored     bool   `json:"monitored"`
}

// MediaFile is a file on disk for a movie or one-or-more episodes.
// A single file may cover several episodes (multi-episode releases);
// EpisodeIDs lists every episode it provides.
type MediaFile struct {
	ID           int64   `json:"id"`
	MovieID      int64   `json:"movieId,omitempty"`
	SeriesID     int64   `json:"seriesId,omitempty"`
	EpisodeIDs   []int64 `json:"episodeIds,omitempty"`
	RelativePath string  `json:"relativePath"`
	SceneName    string  `json:"sceneName,omitempty"`
	Size         int64   `json:"size"`
	InfoHash     string  `json:"infoHash,omitempty"`
}

// Identity returns the string fed to the scoring oracle for this file:
// the original scene name when known, the relative path otherwise.
func (f *MediaFile) Identity() string {
	if f.SceneName != "" {
		return f.SceneName
	}
	return f.RelativePath
}

// CoversEpisode reports whether the file provides the given episode.
func (f *MediaFile) CoversEpisode(episodeID int64) bool {
	for _, id := range f.EpisodeIDs {
		if id == episodeID {
			return true
		}
	}
	return false
}
