package quality

// Quality represents a quality tier.
type Quality struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source"`     // "bluray", "webdl", "hdtv", etc.
	Resolution int    `json:"resolution"` // 480, 720, 1080, 2160
	Weight     int    `json:"weight"`     // Higher = better quality
}

// Predefined are the standard quality definitions, ordered by weight.
var Predefined = []Quality{
	{ID: 1, Name: "SDTV", Source: "tv", Resolution: 480, Weight: 1},
	{ID: 2, Name: "DVD", Source: "dvd", Resolution: 480, Weight: 2},
	{ID: 3, Name: "WEBRip-480p", Source: "webrip", Resolution: 480, Weight: 3},
	{ID: 4, Name: "HDTV-720p", Source: "tv", Resolution: 720, Weight: 4},
	{ID: 5, Name: "WEBRip-720p", Source: "webrip", Resolution: 720, Weight: 5},
	{ID: 6, Name: "WEBDL-720p", Source: "webdl", Resolution: 720, Weight: 6},
	{ID: 7, Name: "Bluray-720p", Source: "bluray", Resolution: 720, Weight: 7},
	{ID: 8, Name: "HDTV-1080p", Source: "tv", Resolution: 1080, Weight: 8},
	{ID: 9, Name: "WEBRip-1080p", Source: "webrip", Resolution: 1080, Weight: 9},
	{ID: 10, Name: "WEBDL-1080p", Source: "webdl", Resolution: 1080, Weight: 10},
	{ID: 11, Name: "Bluray-1080p", Source: "bluray", Resolution: 1080, Weight: 11},
	{ID: 12, Name: "Remux-1080p", Source: "remux", Resolution: 1080, Weight: 12},
	{ID: 13, Name: "HDTV-2160p", Source: "tv", Resolution: 2160, Weight: 13},
	{ID: 14, Name: "WEBRip-2160p", Source: "webrip", Resolution: 2160, Weight: 14},
	{ID: 15, Name: "WEBDL-2160p", Source: "webdl", Resolution: 2160, Weight: 15},
	{ID: 16, Name: "Bluray-2160p", Source: "bluray", Resolution: 2160, Weight: 16},
	{ID: 17, Name: "Remux-2160p", Source: "remux", Resolution: 2160, Weight: 17},
}

// MaxWeight is the weight of the best predefined quality (Remux-2160p).
const MaxWeight = 17

var qualityByID map[int]Quality

func init() {
	qualityByID = make(map[int]Quality, len(Predefined))
	for _, q := range Predefined {
		qualityByID[q.ID] = q
	}
}

// ByID returns a quality by its ID.
func ByID(id int) (Quality, bool) {
	q, ok := qualityByID[id]
	return q, ok
}

// ByName finds a quality by name.
func ByName(name string) (Quality, bool) {
	for _, q := range Predefined {
		if q.Name == name {
			return q, true
		}
	}
	return Quality{}, false
}

// BySourceAndResolution finds the quality matching a parsed release source
// and resolution. Source must be one of the canonical source keys.
func BySourceAndResolution(source string, resolution int) (Quality, bool) {
	for _, q := range Predefined {
		if q.Source == source && q.Resolution == resolution {
			return q, true
		}
	}
	return Quality{}, false
}
