// Package quality defines quality tiers and scoring profiles.
package quality

import (
	"encoding/json"
	"time"
)

// QualityItem represents a quality in a profile with its allowed status.
type QualityItem struct {
	Quality Quality `json:"quality"`
	Allowed bool    `json:"allowed"`
}

// Profile represents a scoring profile. It controls which qualities are
// acceptable and how upgrade decisions are made.
type Profile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// UpgradesAllowed controls whether a release may replace an existing file.
	UpgradesAllowed bool `json:"upgradesAllowed"`

	// MinScoreIncrement is the minimum score delta required for a candidate
	// to count as an upgrade over an existing file.
	MinScoreIncrement float64 `json:"minScoreIncrement"`

	// UpgradeUntilScore stops upgrade *searches* once a file reaches this
	// score. It is a search-throttling setting only; candidates that have
	// already been found are evaluated on their own merits.
	UpgradeUntilScore float64 `json:"upgradeUntilScore"`

	// MinScore is the minimum score a brand-new download must reach.
	MinScore float64 `json:"minScore"`

	// IsDefault marks the profile used when media has no assigned profile.
	IsDefault bool `json:"isDefault"`

	Items     []QualityItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// IsAcceptable checks if a quality is acceptable for this profile.
func (p *Profile) IsAcceptable(qualityID int) bool {
	for _, item := range p.Items {
		if item.Quality.ID == qualityID && item.Allowed {
			return true
		}
	}
	return false
}

// AnyProfile returns a profile that accepts all qualities.
func AnyProfile() Profile {
	items := make([]QualityItem, len(Predefined))
	for i, q := range Predefined {
		items[i] = QualityItem{Quality: q, Allowed: true}
	}
	return Profile{
		Name:              "Any",
		UpgradesAllowed:   true,
		MinScoreIncrement: 1,
		UpgradeUntilScore: 80,
		MinScore:          0,
		Items:             items,
	}
}

// HD1080pProfile returns a profile targeting 720p-1080p content.
func HD1080pProfile() Profile {
	items := make([]QualityItem, len(Predefined))
	for i, q := range Predefined {
		items[i] = QualityItem{
			Quality: q,
			Allowed: q.Resolution >= 720 && q.Resolution <= 1080,
		}
	}
	return Profile{
		Name:              "HD-1080p",
		UpgradesAllowed:   true,
		MinScoreIncrement: 1,
		UpgradeUntilScore: 65,
		MinScore:          10,
		Items:             items,
	}
}

// Ultra4KProfile returns a profile targeting 4K content.
func Ultra4KProfile() Profile {
	items := make([]QualityItem, len(Predefined))
	for i, q := range Predefined {
		items[i] = QualityItem{Quality: q, Allowed: q.Resolution >= 1080}
	}
	return Profile{
		Name:              "Ultra-HD",
		UpgradesAllowed:   true,
		MinScoreIncrement: 1,
		UpgradeUntilScore: 95,
		MinScore:          10,
		Items:             items,
	}
}

// SerializeItems converts quality items to JSON for database storage.
func SerializeItems(items []QualityItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeserializeItems parses JSON quality items from database storage.
func DeserializeItems(data string) ([]QualityItem, error) {
	var items []QualityItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}
