// Package decision implements the release decision engine: given a candidate
// release and a target scope (movie, episode, season, series, or an explicit
// episode set), it produces a structured accept/reject verdict.
//
// The engine is stateless and performs no writes; concurrent evaluations for
// the same media are not serialized here. Guarding against grab races is the
// queue layer's job.
package decision

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/driftarr/driftarr/internal/blocklist"
	"github.com/driftarr/driftarr/internal/media"
	"github.com/driftarr/driftarr/internal/quality"
	"github.com/driftarr/driftarr/internal/release"
)

// Engine evaluates candidate releases. Construct one at startup and share it;
// it holds no per-call state.
type Engine struct {
	oracle ScoreOracle
	gate   BlocklistGate
	repo   MediaRepository
	logger zerolog.Logger
}

// NewEngine creates a decision engine.
func NewEngine(oracle ScoreOracle, gate BlocklistGate, repo MediaRepository, logger zerolog.Logger) *Engine {
	return &Engine{
		oracle: oracle,
		gate:   gate,
		repo:   repo,
		logger: logger.With().Str("component", "decision").Logger(),
	}
}

// EvaluateMovie decides whether a candidate should be grabbed for a movie.
func (e *Engine) EvaluateMovie(ctx context.Context, movieID int64, candidate release.Candidate, opts Options) Result {
	movie, err := e.repo.Movie(ctx, movieID)
	if err != nil {
		if errors.Is(err, media.ErrMovieNotFound) {
			return rejectedResult(RejectionMovieNotFound, StatusRejected, "movie %d not found", movieID)
		}
		return errorResult(err)
	}

	if r := e.checkBlocklist(ctx, candidate, blocklist.Scope{MovieID: movieID}, opts); r != nil {
		return *r
	}

	profile, rej := e.resolveProfile(ctx, movie.ProfileID)
	if rej != nil {
		return *rej
	}

	file, err := e.repo.MovieFile(ctx, movieID)
	if err != nil {
		return errorResult(err)
	}

	result := e.evaluateSingle(profile, file, candidate, opts, false)
	e.logDecision("movie", movieID, candidate, result)
	return result
}

// EvaluateEpisode decides whether a candidate should be grabbed for a single
// episode.
func (e *Engine) EvaluateEpisode(ctx context.Context, episodeID int64, candidate release.Candidate, opts Options) Result {
	episode, err := e.repo.Episode(ctx, episodeID)
	if err != nil {
		if errors.Is(err, media.ErrEpisodeNotFound) {
			return rejectedResult(RejectionEpisodeNotFound, StatusRejected, "episode %d not found", episodeID)
		}
		return errorResult(err)
	}

	if r := e.checkBlocklist(ctx, candidate, blocklist.Scope{SeriesID: episode.SeriesID}, opts); r != nil {
		return *r
	}

	series, err := e.repo.Series(ctx, episode.SeriesID)
	if err != nil {
		return errorResult(err)
	}

	profile, rej := e.resolveProfile(ctx, series.ProfileID)
	if rej != nil {
		return *rej
	}

	file, err := e.episodeFile(ctx, episode)
	if err != nil {
		return errorResult(err)
	}

	result := e.evaluateSingle(profile, file, candidate, opts, true)
	e.logDecision("episode", episodeID, candidate, result)
	return result
}

// EvaluateSeason decides whether a season pack should be grabbed for one
// season of a series.
func (e *Engine) EvaluateSeason(ctx context.Context, seriesID int64, seasonNumber int, candidate release.Candidate, opts Options) Result {
	return e.evaluateSeriesScope(ctx, seriesID, candidate, opts, func(ctx context.Context) ([]media.Episode, error) {
		return e.repo.EpisodesBySeason(ctx, seriesID, seasonNumber)
	})
}

// EvaluateSeries decides whether a whole-series pack should be grabbed.
func (e *Engine) EvaluateSeries(ctx context.Context, seriesID int64, candidate release.Candidate, opts Options) Result {
	return e.evaluateSeriesScope(ctx, seriesID, candidate, opts, func(ctx context.Context) ([]media.Episode, error) {
		return e.repo.EpisodesBySeries(ctx, seriesID)
	})
}

// EvaluateEpisodes decides whether a candidate should be grabbed for an
// arbitrary set of episodes. A single-element set delegates to the episode
// path so its same-hash handling applies.
func (e *Engine) EvaluateEpisodes(ctx context.Context, episodeIDs []int64, candidate release.Candidate, opts Options) Result {
	if len(episodeIDs) == 0 {
		return rejectedResult(RejectionNoEpisodes, StatusRejected, "no episodes given")
	}
	if len(episodeIDs) == 1 {
		return e.EvaluateEpisode(ctx, episodeIDs[0], candidate, opts)
	}

	episodes, err := e.repo.EpisodesByIDs(ctx, episodeIDs)
	if err != nil {
		return errorResult(err)
	}
	if len(episodes) == 0 {
		return rejectedResult(RejectionEpisodesNotFound, StatusRejected, "none of the %d episodes found", len(episodeIDs))
	}

	// All episodes are expected to belong to one series; the series is taken
	// from the first resolved episode.
	seriesID := episodes[0].SeriesID

	if r := e.checkBlocklist(ctx, candidate, blocklist.Scope{SeriesID: seriesID}, opts); r != nil {
		return *r
	}

	series, err := e.repo.Series(ctx, seriesID)
	if err != nil {
		return errorResult(err)
	}

	profile, rej := e.resolveProfile(ctx, series.ProfileID)
	if rej != nil {
		return *rej
	}

	files, err := e.repo.EpisodeFilesBySeries(ctx, seriesID)
	if err != nil {
		return errorResult(err)
	}

	result := e.evaluateAggregate(profile, episodes, mapFilesByEpisode(files, episodes), candidate, opts, len(episodes) > 1)
	e.logDecision("episodes", seriesID, candidate, result)
	return result
}

// evaluateSeriesScope shares the season and whole-series flows; they differ
// only in how the target episode set resolves.
func (e *Engine) evaluateSeriesScope(ctx context.Context, seriesID int64, candidate release.Candidate, opts Options, resolve func(context.Context) ([]media.Episode, error)) Result {
	series, err := e.repo.Series(ctx, seriesID)
	if err != nil {
		if errors.Is(err, media.ErrSeriesNotFound) {
			return rejectedResult(RejectionSeriesNotFound, StatusRejected, "series %d not found", seriesID)
		}
		return errorResult(err)
	}

	if r := e.checkBlocklist(ctx, candidate, blocklist.Scope{SeriesID: seriesID}, opts); r != nil {
		return *r
	}

	profile, rej := e.resolveProfile(ctx, series.ProfileID)
	if rej != nil {
		return *rej
	}

	episodes, err := resolve(ctx)
	if err != nil {
		return errorResult(err)
	}
	if len(episodes) == 0 {
		return rejectedResult(RejectionNoEpisodes, StatusRejected, "no episodes in scope for series %d", seriesID)
	}

	files, err := e.repo.EpisodeFilesBySeries(ctx, seriesID)
	if err != nil {
		return errorResult(err)
	}

	result := e.evaluateAggregate(profile, episodes, mapFilesByEpisode(files, episodes), candidate, opts, true)
	e.logDecision("series", seriesID, candidate, result)
	return result
}

// checkBlocklist runs the blocklist gate. Returns nil when the candidate may
// proceed. Skipped under force or an explicit skip; a blocklisted candidate
// short-circuits everything else.
func (e *Engine) checkBlocklist(ctx context.Context, candidate release.Candidate, scope blocklist.Scope, opts Options) *Result {
	if opts.Force || opts.SkipBlocklist {
		return nil
	}

	verdict, err := e.gate.IsSatisfied(ctx, candidate, scope)
	if err != nil {
		r := errorResult(err)
		return &r
	}
	if verdict.Accepted {
		return nil
	}

	reason := verdict.Reason
	if reason == "" {
		reason = "release is blocklisted"
	}
	r := rejectedResult(RejectionBlocklisted, StatusBlocked, "%s", reason)
	return &r
}

// resolveProfile walks the fallback chain: assigned profile, then the
// default-flagged profile, then any profile at all. A dangling assigned ID
// logs a warning and falls through instead of failing.
func (e *Engine) resolveProfile(ctx context.Context, assignedID int64) (*quality.Profile, *Result) {
	if assignedID != 0 {
		profile, err := e.repo.ProfileByID(ctx, assignedID)
		switch {
		case err == nil:
			return profile, nil
		case errors.Is(err, media.ErrProfileNotFound):
			e.logger.Warn().Int64("profileId", assignedID).
				Msg("Assigned profile does not exist, falling back")
		default:
			r := errorResult(err)
			return nil, &r
		}
	}

	profile, err := e.repo.DefaultProfile(ctx)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, media.ErrProfileNotFound):
		// fall through
	default:
		r := errorResult(err)
		return nil, &r
	}

	profile, err = e.repo.AnyProfile(ctx)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, media.ErrProfileNotFound):
		r := rejectedResult(RejectionNoProfile, StatusRejected, "no scoring profile configured")
		return nil, &r
	default:
		r := errorResult(err)
		return nil, &r
	}
}

// episodeFile returns the current file covering an episode, or nil.
func (e *Engine) episodeFile(ctx context.Context, episode *media.Episode) (*media.MediaFile, error) {
	files, err := e.repo.EpisodeFilesBySeries(ctx, episode.SeriesID)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].CoversEpisode(episode.ID) {
			return &files[i], nil
		}
	}
	return nil, nil
}

// mapFilesByEpisode builds the episode-id to file map for an aggregate scope.
// A file covering several episodes is shared across all of them; when several
// files cover the same episode, the first one returned wins.
func mapFilesByEpisode(files []media.MediaFile, episodes []media.Episode) map[int64]*media.MediaFile {
	inScope := make(map[int64]bool, len(episodes))
	for _, ep := range episodes {
		inScope[ep.ID] = true
	}

	byEpisode := make(map[int64]*media.MediaFile)
	for i := range files {
		for _, epID := range files[i].EpisodeIDs {
			if inScope[epID] {
				if _, ok := byEpisode[epID]; !ok {
					byEpisode[epID] = &files[i]
				}
			}
		}
	}
	return byEpisode
}

func (e *Engine) logDecision(scope string, id int64, candidate release.Candidate, result Result) {
	evt := e.logger.Debug().
		Str("scope", scope).
		Int64("id", id).
		Str("release", candidate.Title).
		Bool("accepted", result.Accepted).
		Str("status", string(result.Status))
	if !result.Accepted {
		evt = evt.Str("rejection", string(result.Rejection))
	}
	evt.Msg("Evaluated release")
}
