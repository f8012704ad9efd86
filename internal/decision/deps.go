package decision

import (
	"context"

	"github.com/driftarr/driftarr/internal/blocklist"
	"github.com/driftarr/driftarr/internal/media"
	"github.com/driftarr/driftarr/internal/quality"
	"github.com/driftarr/driftarr/internal/release"
	"github.com/driftarr/driftarr/internal/scoring"
)

// Options controls one evaluation. The zero value is the default at every
// call site: blocklist enforced, sidegrades refused, no force.
type Options struct {
	// SkipBlocklist bypasses the blocklist gate.
	SkipBlocklist bool

	// AllowSidegrade accepts candidates scoring equal to the existing file.
	AllowSidegrade bool

	// Force accepts without any scoring or upgrade validation and skips the
	// blocklist gate: the user asked for exactly this release.
	Force bool
}

// ScoreOracle turns release titles into scores and upgrade comparisons.
// Implementations must be pure and safe for concurrent use.
type ScoreOracle interface {
	ScoreRelease(title string, profile *quality.Profile, sizeBytes int64, opts scoring.ScoreOptions) scoring.ScoreResult
	Compare(existing, candidate string, profile *quality.Profile, opts scoring.CompareOptions) scoring.Comparison
}

// BlocklistGate decides whether a candidate is blocklisted for a scope.
type BlocklistGate interface {
	IsSatisfied(ctx context.Context, candidate release.Candidate, scope blocklist.Scope) (blocklist.Verdict, error)
}

// MediaRepository provides read access to tracked media, existing files, and
// scoring profiles.
type MediaRepository interface {
	Movie(ctx context.Context, id int64) (*media.Movie, error)
	// MovieFile returns the current file for a movie, or nil when none exists.
	MovieFile(ctx context.Context, movieID int64) (*media.MediaFile, error)

	Episode(ctx context.Context, id int64) (*media.Episode, error)
	Series(ctx context.Context, id int64) (*media.Series, error)
	EpisodesBySeason(ctx context.Context, seriesID int64, seasonNumber int) ([]media.Episode, error)
	EpisodesBySeries(ctx context.Context, seriesID int64) ([]media.Episode, error)
	EpisodesByIDs(ctx context.Context, ids []int64) ([]media.Episode, error)
	// EpisodeFilesBySeries returns every episode file for a series in one
	// batch; callers filter by episode membership.
	EpisodeFilesBySeries(ctx context.Context, seriesID int64) ([]media.MediaFile, error)

	ProfileByID(ctx context.Context, id int64) (*quality.Profile, error)
	DefaultProfile(ctx context.Context) (*quality.Profile, error)
	AnyProfile(ctx context.Context) (*quality.Profile, error)
}
