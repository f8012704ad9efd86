package decision

import (
	"strings"

	"github.com/driftarr/driftarr/internal/media"
	"github.com/driftarr/driftarr/internal/quality"
	"github.com/driftarr/driftarr/internal/release"
	"github.com/driftarr/driftarr/internal/scoring"
)

// evaluateSingle decides for a single-entity scope (one movie or one episode)
// with an optional existing file.
func (e *Engine) evaluateSingle(profile *quality.Profile, existing *media.MediaFile, candidate release.Candidate, opts Options, isTV bool) Result {
	mediaType := scoring.MediaTypeMovie
	if isTV {
		mediaType = scoring.MediaTypeTV
	}

	// Force skips all scoring and upgrade validation; the user asked for
	// exactly this release.
	if opts.Force {
		if existing == nil {
			return acceptedResult(StatusNew, false, "forced download")
		}
		return acceptedResult(StatusUpgrade, true, "forced download replacing existing file")
	}

	if existing == nil {
		return e.evaluateNewDownload(profile, candidate, scoring.ScoreOptions{MediaType: mediaType})
	}

	// Exact-duplicate short-circuit: a content-identity check, not a quality
	// decision. Takes precedence over everything below.
	if existing.InfoHash != "" && candidate.InfoHash != "" &&
		strings.EqualFold(existing.InfoHash, candidate.InfoHash) {
		return rejectedResult(RejectionSameHash, StatusRejected,
			"candidate is the same release as the existing file (info hash %s)", candidate.InfoHash)
	}

	if !profile.UpgradesAllowed {
		return rejectedResult(RejectionUpgradesNotAllowed, StatusRejected,
			"profile %q does not allow upgrades", profile.Name)
	}

	cmp := e.oracle.Compare(existing.Identity(), candidate.Title, profile, scoring.CompareOptions{
		MinimumImprovement: profile.MinScoreIncrement,
		AllowSidegrade:     opts.AllowSidegrade,
		CandidateSizeBytes: candidate.Size,
	})

	if cmp.Candidate.Banned {
		return rejectedResult(RejectionBanned, StatusRejected,
			"%s", strings.Join(cmp.Candidate.BannedReasons, ", "))
	}
	if cmp.Candidate.SizeRejected {
		return rejectedResult(RejectionSizeRejected, StatusRejected,
			"%s", sizeReason(cmp.Candidate))
	}

	// The status reflects the raw score delta regardless of accept/reject,
	// so callers can report why something was refused.
	status := statusFromImprovement(cmp.Improvement)

	if !cmp.IsUpgrade {
		var result Result
		switch {
		case cmp.Improvement <= 0:
			result = rejectedResult(RejectionQualityNotBetter, status,
				"candidate score %.1f is not better than existing %.1f",
				cmp.Candidate.TotalScore, cmp.Existing.TotalScore)
		case cmp.Improvement < profile.MinScoreIncrement:
			result = rejectedResult(RejectionImprovementTooSmall, status,
				"improvement %.1f is below the minimum increment %.1f",
				cmp.Improvement, profile.MinScoreIncrement)
		default:
			result = rejectedResult(RejectionNotUpgrade, status, "candidate is not an upgrade")
		}
		attachScores(&result, cmp)
		return result
	}

	result := acceptedResult(status, true, "upgrade: score %.1f over existing %.1f",
		cmp.Candidate.TotalScore, cmp.Existing.TotalScore)
	attachScores(&result, cmp)
	return result
}

// evaluateNewDownload scores a candidate with no existing file to compare to.
func (e *Engine) evaluateNewDownload(profile *quality.Profile, candidate release.Candidate, opts scoring.ScoreOptions) Result {
	sr := e.oracle.ScoreRelease(candidate.Title, profile, candidate.Size, opts)

	if sr.Banned {
		return rejectedResult(RejectionBanned, StatusRejected,
			"%s", strings.Join(sr.BannedReasons, ", "))
	}
	if sr.SizeRejected {
		return rejectedResult(RejectionSizeRejected, StatusRejected, "%s", sizeReason(sr))
	}
	if !sr.MeetsMinimum {
		return rejectedResult(RejectionBelowMinimum, StatusRejected,
			"score %.1f is below the profile minimum %.1f", sr.TotalScore, profile.MinScore)
	}

	result := acceptedResult(StatusNew, false, "new download, score %.1f", sr.TotalScore)
	result.CandidateScore = scoreptr(sr.TotalScore)
	return result
}

func statusFromImprovement(improvement float64) UpgradeStatus {
	switch {
	case improvement > 0:
		return StatusUpgrade
	case improvement < 0:
		return StatusDowngrade
	default:
		return StatusSidegrade
	}
}

func attachScores(r *Result, cmp scoring.Comparison) {
	r.CandidateScore = scoreptr(cmp.Candidate.TotalScore)
	r.ExistingScore = scoreptr(cmp.Existing.TotalScore)
	r.ScoreImprovement = scoreptr(cmp.Improvement)
}

func sizeReason(sr scoring.ScoreResult) string {
	if sr.SizeRejectionReason != "" {
		return sr.SizeRejectionReason
	}
	return "release size is outside the acceptable range"
}
