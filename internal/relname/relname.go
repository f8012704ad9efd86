// Package relname parses release titles into structured media attributes.
package relname

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedRelease holds the attributes extracted from a release title.
type ParsedRelease struct {
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`

	IsTV             bool `json:"isTv"`
	Season           int  `json:"season,omitempty"`     // 0 for movies and complete-series packs
	EndSeason        int  `json:"endSeason,omitempty"`  // for multi-season ranges (S01-S04)
	Episode          int  `json:"episode,omitempty"`    // 0 for season packs
	EndEpisode       int  `json:"endEpisode,omitempty"` // for multi-episode releases (S01E01E02, S01E01-E03)
	IsSeasonPack     bool `json:"isSeasonPack,omitempty"`
	IsCompleteSeries bool `json:"isCompleteSeries,omitempty"`

	Resolution int      `json:"resolution,omitempty"` // 480, 720, 1080, 2160
	Source     string   `json:"source,omitempty"`     // canonical: "bluray", "webdl", "webrip", "tv", "dvd", "remux"
	Codec      string   `json:"codec,omitempty"`
	Attributes []string `json:"attributes,omitempty"` // REMUX, DV, HDR10, Atmos, ...
	BannedTags []string `json:"bannedTags,omitempty"` // CAM, TELESYNC, SCREENER, ...
}

// EpisodeNumbers expands the parsed episode range into explicit numbers.
// Returns nil for season packs and movies.
func (p *ParsedRelease) EpisodeNumbers() []int {
	if p.Episode == 0 {
		return nil
	}
	if p.EndEpisode <= p.Episode {
		return []int{p.Episode}
	}
	nums := make([]int, 0, p.EndEpisode-p.Episode+1)
	for n := p.Episode; n <= p.EndEpisode; n++ {
		nums = append(nums, n)
	}
	return nums
}

var (
	// Show.S01E02, Show.S01E02E03, Show.S01E02-E04
	reEpisode = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+s(\d{1,2})e(\d{1,3})(?:[-e]+e?(\d{1,3}))?[.\s_-]*(.*)$`)
	// Show.1x02
	reEpisodeX = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+(\d{1,2})x(\d{1,3})[.\s_-]*(.*)$`)
	// Show.S01-S04 or Show.S01-04 (multi-season boxset)
	reSeasonRange = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+s(\d{1,2})-s?(\d{1,2})[.\s_-]+(.*)$`)
	// Show.S01 (season pack, no episode)
	reSeasonPack = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+s(\d{1,2})(?:[.\s_-]|$)(.*)$`)
	// Show.Season.1
	reSeasonWord = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+season[.\s_-]+(\d{1,2})(?:[.\s_-]|$)(.*)$`)
	// Show.COMPLETE / Show.Complete.Series (no season number)
	reComplete = regexp.MustCompile(`(?i)^(.+?)[.\s_-]+complete(?:[.\s_-]+series)?[.\s_-]+(.*)$`)
	// Title.2008.rest / Title (2008) rest / Title.2008
	reMovieParen = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)\s*(.*)$`)
	reMovieYear  = regexp.MustCompile(`^(.+?)[.\s_-]+(\d{4})(?:[.\s_-]+(.*))?$`)

	reSeparators = regexp.MustCompile(`[.\s_-]+`)
)

// attrPattern ties a canonical tag to its detection regex. Order matters:
// the first match in a group wins.
type attrPattern struct {
	tag string
	re  *regexp.Regexp
}

var resolutionPatterns = []attrPattern{
	{"2160", regexp.MustCompile(`(?i)\b(2160p|4k|uhd)\b`)},
	{"1080", regexp.MustCompile(`(?i)\b1080[pi]\b`)},
	{"720", regexp.MustCompile(`(?i)\b720p\b`)},
	{"480", regexp.MustCompile(`(?i)\b(480p|576p)\b`)},
}

var sourcePatterns = []attrPattern{
	{"remux", regexp.MustCompile(`(?i)\bremux\b`)},
	{"bluray", regexp.MustCompile(`(?i)\b(blu-?ray|bdrip|brrip)\b`)},
	// webrip before webdl: the bare-web fallback in the webdl pattern would
	// otherwise claim hyphenated "WEB-Rip" first.
	{"webrip", regexp.MustCompile(`(?i)\bweb-?rip\b`)},
	{"webdl", regexp.MustCompile(`(?i)\bweb(-?dl)?\b`)},
	{"tv", regexp.MustCompile(`(?i)\b(hdtv|sdtv|pdtv|dsr)\b`)},
	{"dvd", regexp.MustCompile(`(?i)\b(dvdrip|dvd-?r|dvd)\b`)},
}

var codecPatterns = []attrPattern{
	{"x265", regexp.MustCompile(`(?i)\b(x265|h\.?265|hevc)\b`)},
	{"x264", regexp.MustCompile(`(?i)\b(x264|h\.?264|avc)\b`)},
	{"av1", regexp.MustCompile(`(?i)\bav1\b`)},
	{"xvid", regexp.MustCompile(`(?i)\bxvid\b`)},
}

var hdrPatterns = []attrPattern{
	{"DV", regexp.MustCompile(`(?i)\b(dolby[.\s]?vision|dovi|dv)\b`)},
	{"HDR10+", regexp.MustCompile(`(?i)hdr10\+`)},
	{"HDR10", regexp.MustCompile(`(?i)\bhdr10\b`)},
	{"HDR", regexp.MustCompile(`(?i)\bhdr\b`)},
}

var audioPatterns = []attrPattern{
	{"Atmos", regexp.MustCompile(`(?i)\batmos\b`)},
	{"TrueHD", regexp.MustCompile(`(?i)\btruehd\b`)},
	{"DTS-HD", regexp.MustCompile(`(?i)\bdts-?hd(-?ma)?\b`)},
	{"DTS", regexp.MustCompile(`(?i)\bdts\b`)},
	{"DD+", regexp.MustCompile(`(?i)\b(ddp|dd\+|e-?ac-?3)\b`)},
	{"AAC", regexp.MustCompile(`(?i)\baac\b`)},
}

var bannedPatterns = []attrPattern{
	{"CAM", regexp.MustCompile(`(?i)\b(cam(rip)?|hdcam)\b`)},
	{"TELESYNC", regexp.MustCompile(`(?i)\b(ts|telesync|hdts)\b`)},
	{"TELECINE", regexp.MustCompile(`(?i)\b(tc|telecine)\b`)},
	{"SCREENER", regexp.MustCompile(`(?i)\b(scr|screener|dvdscr|bdscr)\b`)},
	{"WORKPRINT", regexp.MustCompile(`(?i)\bworkprint\b`)},
}

// Parse extracts structured media attributes from a release title.
// It never fails; unrecognized titles come back with the whole name as Title.
func Parse(name string) *ParsedRelease {
	p := &ParsedRelease{}

	if m := reEpisode.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.Title = cleanTitle(m[1])
		p.Season, _ = strconv.Atoi(m[2])
		p.Episode, _ = strconv.Atoi(m[3])
		if m[4] != "" {
			p.EndEpisode, _ = strconv.Atoi(m[4])
		}
		parseTail(m[5], p)
		return p
	}

	if m := reEpisodeX.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.Title = cleanTitle(m[1])
		p.Season, _ = strconv.Atoi(m[2])
		p.Episode, _ = strconv.Atoi(m[3])
		parseTail(m[4], p)
		return p
	}

	// Multi-season range before single season pack so S01-S04 doesn't match S01.
	if m := reSeasonRange.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.IsSeasonPack = true
		p.IsCompleteSeries = true
		p.Title = cleanTitle(m[1])
		p.Season, _ = strconv.Atoi(m[2])
		p.EndSeason, _ = strconv.Atoi(m[3])
		parseTail(m[4], p)
		return p
	}

	if m := reSeasonPack.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.IsSeasonPack = true
		p.Title = cleanTitle(m[1])
		p.Season, _ = strconv.Atoi(m[2])
		parseTail(m[3], p)
		return p
	}

	if m := reSeasonWord.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.IsSeasonPack = true
		p.Title = cleanTitle(m[1])
		p.Season, _ = strconv.Atoi(m[2])
		parseTail(m[3], p)
		return p
	}

	if m := reComplete.FindStringSubmatch(name); m != nil {
		p.IsTV = true
		p.IsSeasonPack = true
		p.IsCompleteSeries = true
		p.Title = cleanTitle(m[1])
		parseTail(m[2], p)
		return p
	}

	if m := reMovieParen.FindStringSubmatch(name); m != nil {
		p.Title = cleanTitle(m[1])
		p.Year, _ = strconv.Atoi(m[2])
		parseTail(m[3], p)
		return p
	}

	if m := reMovieYear.FindStringSubmatch(name); m != nil {
		if year, _ := strconv.Atoi(m[2]); year >= 1900 && year <= 2100 {
			p.Title = cleanTitle(m[1])
			p.Year = year
			parseTail(m[3], p)
			return p
		}
	}

	p.Title = cleanTitle(name)
	parseTail(name, p)
	return p
}

func cleanTitle(s string) string {
	return strings.TrimSpace(reSeparators.ReplaceAllString(s, " "))
}

func firstMatch(patterns []attrPattern, text string) string {
	for _, ap := range patterns {
		if ap.re.MatchString(text) {
			return ap.tag
		}
	}
	return ""
}

// parseTail extracts quality attributes from the text after the title.
func parseTail(text string, p *ParsedRelease) {
	if tag := firstMatch(resolutionPatterns, text); tag != "" {
		p.Resolution, _ = strconv.Atoi(tag)
	}

	p.Source = firstMatch(sourcePatterns, text)
	p.Codec = firstMatch(codecPatterns, text)

	if p.Source == "remux" {
		p.Attributes = append(p.Attributes, "REMUX")
	}
	if tag := firstMatch(hdrPatterns, text); tag != "" {
		p.Attributes = append(p.Attributes, tag)
	}
	if tag := firstMatch(audioPatterns, text); tag != "" {
		p.Attributes = append(p.Attributes, tag)
	}

	for _, ap := range bannedPatterns {
		if ap.re.MatchString(text) {
			p.BannedTags = append(p.BannedTags, ap.tag)
		}
	}
}
