package decision

import (
	"strings"

	"github.com/driftarr/driftarr/internal/media"
	"github.com/driftarr/driftarr/internal/quality"
	"github.com/driftarr/driftarr/internal/release"
	"github.com/driftarr/driftarr/internal/scoring"
)

// evaluateAggregate decides for a multi-episode scope (season pack,
// whole-series pack, or an explicit episode set) using the majority-benefit
// rule: accept when the episodes improved or newly provided outnumber the
// episodes made worse. This deliberately accepts packs that harm a minority
// of episodes; it mirrors how season-pack grabbing behaves across the
// ecosystem and is not an oversight.
func (e *Engine) evaluateAggregate(profile *quality.Profile, episodes []media.Episode, fileByEpisode map[int64]*media.MediaFile, candidate release.Candidate, opts Options, isSeasonPack bool) Result {
	total := len(episodes)

	// Force trusts the user and skips scoring entirely. Stats are derived
	// from file presence alone: covered episodes count as improved, bare
	// ones as new.
	if opts.Force {
		stats := &UpgradeStats{Total: total}
		for _, ep := range episodes {
			if fileByEpisode[ep.ID] != nil {
				stats.Improved++
			} else {
				stats.NewEpisodes++
			}
		}
		status := StatusNew
		if stats.Improved > 0 {
			status = StatusUpgrade
		}
		result := acceptedResult(status, stats.Improved > 0, "forced download covering %d episodes", total)
		result.Stats = stats
		return result
	}

	// The pack is scored exactly once; per-episode classification below
	// reuses pairwise comparisons, not the pack score.
	packScore := e.oracle.ScoreRelease(candidate.Title, profile, candidate.Size, scoring.ScoreOptions{
		MediaType:    scoring.MediaTypeTV,
		IsSeasonPack: isSeasonPack,
		EpisodeCount: total,
	})

	if packScore.Banned {
		return rejectedResult(RejectionBanned, StatusRejected,
			"%s", strings.Join(packScore.BannedReasons, ", "))
	}
	if packScore.SizeRejected {
		return rejectedResult(RejectionSizeRejected, StatusRejected, "%s", sizeReason(packScore))
	}

	stats := &UpgradeStats{Total: total}
	for _, ep := range episodes {
		file := fileByEpisode[ep.ID]
		if file == nil {
			stats.NewEpisodes++
			continue
		}

		// The pack size was already vetted above with per-episode
		// normalization; feeding it into a pairwise comparison would apply
		// single-episode limits to the whole pack.
		cmp := e.oracle.Compare(file.Identity(), candidate.Title, profile, scoring.CompareOptions{
			MinimumImprovement: profile.MinScoreIncrement,
			AllowSidegrade:     opts.AllowSidegrade,
		})
		switch {
		case cmp.IsUpgrade:
			stats.Improved++
		case cmp.Improvement == 0:
			stats.Unchanged++
		default:
			stats.Downgraded++
		}
	}

	hasExistingFiles := total > stats.NewEpisodes

	if !hasExistingFiles {
		// Purely new content: only the minimum-score gate applies.
		if !packScore.MeetsMinimum {
			result := rejectedResult(RejectionBelowMinimum, StatusRejected,
				"score %.1f is below the profile minimum %.1f", packScore.TotalScore, profile.MinScore)
			result.Stats = stats
			return result
		}
		result := acceptedResult(StatusNew, false, "%d new episodes, score %.1f", total, packScore.TotalScore)
		result.Stats = stats
		result.CandidateScore = scoreptr(packScore.TotalScore)
		return result
	}

	if !profile.UpgradesAllowed && stats.Improved > 0 {
		result := rejectedResult(RejectionUpgradesNotAllowed, StatusRejected,
			"profile %q does not allow upgrades (%d episodes would improve)", profile.Name, stats.Improved)
		result.Stats = stats
		return result
	}

	if stats.NetBenefit() <= 0 {
		result := rejectedResult(RejectionNoNetBenefit, StatusRejected,
			"no net benefit: %d improved, %d new, %d downgraded of %d episodes",
			stats.Improved, stats.NewEpisodes, stats.Downgraded, total)
		result.Stats = stats
		return result
	}

	status := StatusNew
	switch {
	case stats.Downgraded > 0:
		// Mixed results: don't claim a clean upgrade.
		status = StatusSidegrade
	case stats.Improved > 0:
		status = StatusUpgrade
	}

	result := acceptedResult(status, stats.Improved > 0, "%d/%d episodes benefit",
		stats.Improved+stats.NewEpisodes, total)
	result.Stats = stats
	result.CandidateScore = scoreptr(packScore.TotalScore)
	return result
}
