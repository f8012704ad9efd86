package decision

import "fmt"

// UpgradeStatus classifies what accepting (or rejecting) a release would mean
// relative to the existing library state.
type UpgradeStatus string

const (
	StatusUpgrade   UpgradeStatus = "upgrade"
	StatusSidegrade UpgradeStatus = "sidegrade"
	StatusDowngrade UpgradeStatus = "downgrade"
	StatusNew       UpgradeStatus = "new"
	StatusBlocked   UpgradeStatus = "blocked"
	StatusRejected  UpgradeStatus = "rejected"
)

// RejectionType identifies why a release was rejected.
type RejectionType string

const (
	RejectionMovieNotFound      RejectionType = "movie_not_found"
	RejectionEpisodeNotFound    RejectionType = "episode_not_found"
	RejectionSeriesNotFound     RejectionType = "series_not_found"
	RejectionEpisodesNotFound   RejectionType = "episodes_not_found"
	RejectionNoEpisodes         RejectionType = "no_episodes"
	RejectionNoProfile          RejectionType = "no_profile"
	RejectionBlocklisted        RejectionType = "blocklisted"
	RejectionSameHash           RejectionType = "same_hash"
	RejectionBanned             RejectionType = "banned"
	RejectionSizeRejected       RejectionType = "size_rejected"
	RejectionBelowMinimum       RejectionType = "below_minimum"
	RejectionUpgradesNotAllowed RejectionType = "upgrades_not_allowed"
	RejectionQualityNotBetter   RejectionType = "quality_not_better"
	RejectionImprovementTooSmall RejectionType = "improvement_too_small"
	RejectionNotUpgrade         RejectionType = "not_upgrade"
	RejectionNoNetBenefit       RejectionType = "no_net_benefit"
	RejectionError              RejectionType = "error"
)

// UpgradeStats counts per-episode outcomes for an aggregate evaluation.
// Improved + Unchanged + Downgraded + NewEpisodes always equals Total.
type UpgradeStats struct {
	Improved    int `json:"improved"`
	Unchanged   int `json:"unchanged"`
	Downgraded  int `json:"downgraded"`
	NewEpisodes int `json:"newEpisodes"`
	Total       int `json:"total"`
}

// NetBenefit is the majority-benefit balance: episodes gained or improved
// minus episodes made worse.
func (s UpgradeStats) NetBenefit() int {
	return s.Improved + s.NewEpisodes - s.Downgraded
}

// Result is the decision engine's verdict for one evaluation. It is a value
// object, constructed once and never mutated after return.
type Result struct {
	Accepted  bool          `json:"accepted"`
	Reason    string        `json:"reason,omitempty"`
	Rejection RejectionType `json:"rejectionType,omitempty"`
	Status    UpgradeStatus `json:"upgradeStatus"`
	IsUpgrade bool          `json:"isUpgrade"`

	Stats *UpgradeStats `json:"upgradeStats,omitempty"`

	CandidateScore   *float64 `json:"candidateScore,omitempty"`
	ExistingScore    *float64 `json:"existingScore,omitempty"`
	ScoreImprovement *float64 `json:"scoreImprovement,omitempty"`
}

func acceptedResult(status UpgradeStatus, isUpgrade bool, format string, args ...any) Result {
	return Result{
		Accepted:  true,
		Reason:    fmt.Sprintf(format, args...),
		Status:    status,
		IsUpgrade: isUpgrade,
	}
}

func rejectedResult(rejection RejectionType, status UpgradeStatus, format string, args ...any) Result {
	return Result{
		Accepted:  false,
		Reason:    fmt.Sprintf(format, args...),
		Rejection: rejection,
		Status:    status,
	}
}

// errorResult converts an unexpected collaborator failure into a rejected
// result; the engine never propagates errors past its public API.
func errorResult(err error) Result {
	return rejectedResult(RejectionError, StatusRejected, "%s", err.Error())
}

func scoreptr(v float64) *float64 { return &v }
