package scoring

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/driftarr/driftarr/internal/quality"
	"github.com/driftarr/driftarr/internal/relname"
)

// sizeLimit bounds acceptable release sizes in bytes.
type sizeLimit struct {
	min int64
	max int64
}

const gb = int64(1 << 30)

// movieSizeLimits are whole-release bounds per resolution.
var movieSizeLimits = map[int]sizeLimit{
	480:  {min: gb / 5, max: 2 * gb},
	720:  {min: 2 * gb / 5, max: 5 * gb},
	1080: {min: 3 * gb / 5, max: 20 * gb},
	2160: {min: 3 * gb / 2, max: 60 * gb},
}

// episodeSizeLimits are per-episode bounds per resolution.
var episodeSizeLimits = map[int]sizeLimit{
	480:  {min: gb / 20, max: gb},
	720:  {min: gb / 10, max: 2 * gb},
	1080: {min: gb * 3 / 20, max: 6 * gb},
	2160: {min: gb * 3 / 10, max: 20 * gb},
}

type cacheKey struct {
	title        string
	profileID    int64
	mediaType    MediaType
	isSeasonPack bool
	episodeCount int
	size         int64
}

// Scorer is the scoring oracle: pure, synchronous, safe for concurrent use.
type Scorer struct {
	config Config
	cache  *lru.Cache[cacheKey, ScoreResult]
}

// NewScorer creates a scorer with the given config.
func NewScorer(config Config) *Scorer {
	size := config.CacheSize
	if size <= 0 {
		size = DefaultConfig().CacheSize
	}
	cache, _ := lru.New[cacheKey, ScoreResult](size)
	return &Scorer{config: config, cache: cache}
}

// NewDefaultScorer creates a scorer with default configuration.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultConfig())
}

// ScoreRelease scores a release title against a profile. A zero sizeBytes
// skips the size verdict (used for existing files, whose size is on disk).
func (s *Scorer) ScoreRelease(title string, profile *quality.Profile, sizeBytes int64, opts ScoreOptions) ScoreResult {
	key := cacheKey{
		title:        title,
		profileID:    profile.ID,
		mediaType:    opts.MediaType,
		isSeasonPack: opts.IsSeasonPack,
		episodeCount: opts.EpisodeCount,
		size:         sizeBytes,
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	parsed := relname.Parse(title)
	result := ScoreResult{}

	for _, tag := range parsed.BannedTags {
		result.Banned = true
		result.BannedReasons = append(result.BannedReasons, fmt.Sprintf("release tagged %s", tag))
	}

	result.TotalScore = s.qualityScore(parsed, profile)
	for _, attr := range parsed.Attributes {
		result.TotalScore += attributeBonus[attr]
	}
	result.TotalScore += codecBonus[parsed.Codec]

	if reason := s.sizeVerdict(parsed, sizeBytes, opts); reason != "" {
		result.SizeRejected = true
		result.SizeRejectionReason = reason
	}

	result.MeetsMinimum = !result.Banned && !result.SizeRejected &&
		result.TotalScore >= profile.MinScore

	s.cache.Add(key, result)
	return result
}

// Compare scores both sides of an upgrade decision and applies the
// minimum-increment and sidegrade policy.
func (s *Scorer) Compare(existing, candidate string, profile *quality.Profile, opts CompareOptions) Comparison {
	mediaType := MediaTypeMovie
	parsedCandidate := relname.Parse(candidate)
	if parsedCandidate.IsTV {
		mediaType = MediaTypeTV
	}

	cmp := Comparison{
		Existing:  s.ScoreRelease(existing, profile, 0, ScoreOptions{MediaType: mediaType}),
		Candidate: s.ScoreRelease(candidate, profile, opts.CandidateSizeBytes, ScoreOptions{MediaType: mediaType}),
	}
	cmp.Improvement = cmp.Candidate.TotalScore - cmp.Existing.TotalScore

	switch {
	case cmp.Candidate.Banned || cmp.Candidate.SizeRejected:
		cmp.IsUpgrade = false
	case cmp.Improvement > 0:
		cmp.IsUpgrade = cmp.Improvement >= opts.MinimumImprovement
	case cmp.Improvement == 0:
		cmp.IsUpgrade = opts.AllowSidegrade
	default:
		cmp.IsUpgrade = false
	}

	return cmp
}

// qualityScore returns the quality component: weight-proportional points for
// a matched quality, the disallowed penalty for profile-excluded qualities,
// and a discounted estimate when the release doesn't parse cleanly.
func (s *Scorer) qualityScore(parsed *relname.ParsedRelease, profile *quality.Profile) float64 {
	if q, ok := quality.BySourceAndResolution(parsed.Source, parsed.Resolution); ok {
		if !profile.IsAcceptable(q.ID) {
			return s.config.DisallowedPenalty
		}
		return float64(q.Weight) / float64(quality.MaxWeight) * s.config.MaxQualityPoints
	}

	// Resolution known but source unrecognized: estimate at a discount.
	if parsed.Resolution > 0 {
		weight := estimateWeight(parsed.Resolution)
		return float64(weight) / float64(quality.MaxWeight) * s.config.MaxQualityPoints * s.config.UnknownQualityFactor
	}

	// Nothing recognized at all.
	return s.config.MaxQualityPoints * s.config.UnknownQualityFactor * 0.5
}

// estimateWeight maps a bare resolution onto the middle of its quality band.
func estimateWeight(resolution int) int {
	switch {
	case resolution >= 2160:
		return 14
	case resolution >= 1080:
		return 9
	case resolution >= 720:
		return 5
	default:
		return 2
	}
}

// sizeVerdict returns a rejection reason when the release size falls outside
// the bounds for its resolution, or "" when acceptable or unknown.
func (s *Scorer) sizeVerdict(parsed *relname.ParsedRelease, sizeBytes int64, opts ScoreOptions) string {
	if sizeBytes <= 0 || parsed.Resolution == 0 {
		return ""
	}

	limits := movieSizeLimits
	effective := sizeBytes
	unit := "release"
	if opts.MediaType == MediaTypeTV {
		limits = episodeSizeLimits
		unit = "episode"
		if opts.IsSeasonPack && opts.EpisodeCount > 0 {
			effective = sizeBytes / int64(opts.EpisodeCount)
		}
	}

	limit, ok := limits[parsed.Resolution]
	if !ok {
		return ""
	}
	if effective < limit.min {
		return fmt.Sprintf("%s size %s below minimum %s for %dp", unit, formatSize(effective), formatSize(limit.min), parsed.Resolution)
	}
	if effective > limit.max {
		return fmt.Sprintf("%s size %s above maximum %s for %dp", unit, formatSize(effective), formatSize(limit.max), parsed.Resolution)
	}
	return ""
}

func formatSize(bytes int64) string {
	s := fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	return strings.Replace(s, ".0 ", " ", 1)
}
