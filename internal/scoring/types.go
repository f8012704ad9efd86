// Package scoring turns release titles into numeric scores and upgrade verdicts.
package scoring

// MediaType identifies what kind of media a release is scored against.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ScoreOptions provides context for scoring a single release.
type ScoreOptions struct {
	MediaType MediaType

	// IsSeasonPack adjusts size heuristics to per-episode limits.
	IsSeasonPack bool

	// EpisodeCount is the number of episodes a pack covers. Used to
	// normalize pack size before applying per-episode limits.
	EpisodeCount int
}

// ScoreResult is the verdict for one release against one profile.
type ScoreResult struct {
	TotalScore          float64  `json:"totalScore"`
	Banned              bool     `json:"banned"`
	BannedReasons       []string `json:"bannedReasons,omitempty"`
	SizeRejected        bool     `json:"sizeRejected"`
	SizeRejectionReason string   `json:"sizeRejectionReason,omitempty"`
	MeetsMinimum        bool     `json:"meetsMinimum"`
}

// CompareOptions controls an upgrade comparison.
type CompareOptions struct {
	// MinimumImprovement is the score delta below which a positive
	// improvement still does not count as an upgrade.
	MinimumImprovement float64

	// AllowSidegrade accepts candidates whose score equals the existing one.
	AllowSidegrade bool

	// CandidateSizeBytes, when known, enables the size verdict on the
	// candidate side. Zero skips the size check.
	CandidateSizeBytes int64
}

// Comparison is the result of comparing a candidate against an existing file.
type Comparison struct {
	Existing  ScoreResult `json:"existing"`
	Candidate ScoreResult `json:"candidate"`

	// Improvement is candidate score minus existing score.
	Improvement float64 `json:"improvement"`

	// IsUpgrade folds in the minimum-increment and sidegrade policy, and is
	// always false for banned or size-rejected candidates.
	IsUpgrade bool `json:"isUpgrade"`
}

// Config holds configurable weights for the scoring algorithm.
type Config struct {
	MaxQualityPoints     float64 // default: 100
	UnknownQualityFactor float64 // default: 0.5 (50% of max for unknown quality)
	DisallowedPenalty    float64 // default: -1000 (profile-disallowed quality)

	// CacheSize bounds the parse+score memoization cache.
	CacheSize int // default: 2048
}

// DefaultConfig returns the default scoring weights.
func DefaultConfig() Config {
	return Config{
		MaxQualityPoints:     100,
		UnknownQualityFactor: 0.5,
		DisallowedPenalty:    -1000,
		CacheSize:            2048,
	}
}

// attributeBonus awards extra points for notable release attributes.
var attributeBonus = map[string]float64{
	"REMUX":  6,
	"DV":     4,
	"HDR10+": 4,
	"HDR10":  3,
	"HDR":    2,
	"Atmos":  3,
	"TrueHD": 2,
	"DTS-HD": 2,
	"DTS":    1,
	"DD+":    1,
}

// codecBonus awards extra points for efficient codecs.
var codecBonus = map[string]float64{
	"x265": 4,
	"av1":  3,
	"x264": 2,
}
