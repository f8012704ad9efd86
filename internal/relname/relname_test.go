package relname

import (
	"reflect"
	"testing"
)

func TestParse_Movies(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		year       int
		resolution int
		source     string
		codec      string
	}{
		{
			name:       "Inception.2010.1080p.BluRay.x264-GROUP",
			title:      "Inception",
			year:       2010,
			resolution: 1080,
			source:     "bluray",
			codec:      "x264",
		},
		{
			name:       "The Matrix (1999) 2160p UHD BluRay x265",
			title:      "The Matrix",
			year:       1999,
			resolution: 2160,
			source:     "bluray",
			codec:      "x265",
		},
		{
			name:       "Dune.Part.Two.2024.720p.WEB-DL.H.264",
			title:      "Dune Part Two",
			year:       2024,
			resolution: 720,
			source:     "webdl",
			codec:      "x264",
		},
		{
			name:   "Old.Film.1954.DVDRip.XviD",
			title:  "Old Film",
			year:   1954,
			source: "dvd",
			codec:  "xvid",
		},
		{
			name:       "Arrival.2016.1080p.WEB-Rip.x265",
			title:      "Arrival",
			year:       2016,
			resolution: 1080,
			source:     "webrip",
			codec:      "x265",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.name)
			if p.IsTV {
				t.Error("movie parsed as TV")
			}
			if p.Title != tc.title {
				t.Errorf("title: got %q want %q", p.Title, tc.title)
			}
			if p.Year != tc.year {
				t.Errorf("year: got %d want %d", p.Year, tc.year)
			}
			if p.Resolution != tc.resolution {
				t.Errorf("resolution: got %d want %d", p.Resolution, tc.resolution)
			}
			if p.Source != tc.source {
				t.Errorf("source: got %q want %q", p.Source, tc.source)
			}
			if p.Codec != tc.codec {
				t.Errorf("codec: got %q want %q", p.Codec, tc.codec)
			}
		})
	}
}

func TestParse_Episodes(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		season     int
		episode    int
		endEpisode int
	}{
		{"Breaking.Bad.S03E07.1080p.WEB-DL.x264", "Breaking Bad", 3, 7, 0},
		{"The.Office.1x05.HDTV.XviD", "The Office", 1, 5, 0},
		{"Show.Name.S01E01E02.720p.WEB-DL", "Show Name", 1, 1, 2},
		{"Show.Name.S02E04-E06.1080p.BluRay", "Show Name", 2, 4, 6},
		{"some show s10e100 web", "some show", 10, 100, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.name)
			if !p.IsTV {
				t.Fatal("episode not recognized as TV")
			}
			if p.IsSeasonPack {
				t.Error("episode flagged as season pack")
			}
			if p.Title != tc.title {
				t.Errorf("title: got %q want %q", p.Title, tc.title)
			}
			if p.Season != tc.season || p.Episode != tc.episode || p.EndEpisode != tc.endEpisode {
				t.Errorf("got S%02dE%02d-E%02d want S%02dE%02d-E%02d",
					p.Season, p.Episode, p.EndEpisode, tc.season, tc.episode, tc.endEpisode)
			}
		})
	}
}

func TestParse_SeasonPacks(t *testing.T) {
	tests := []struct {
		name           string
		season         int
		endSeason      int
		completeSeries bool
	}{
		{"Breaking.Bad.S03.1080p.BluRay.x264", 3, 0, false},
		{"The.Wire.Season.2.DVDRip", 2, 0, false},
		{"Band.of.Brothers.S01-S01.720p", 1, 1, true},
		{"The.Sopranos.S01-S06.1080p.BluRay", 1, 6, true},
		{"Firefly.COMPLETE.720p.BluRay", 0, 0, true},
		{"Rome.Complete.Series.1080p.WEB-DL", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.name)
			if !p.IsTV || !p.IsSeasonPack {
				t.Fatalf("expected season pack, got IsTV=%v IsSeasonPack=%v", p.IsTV, p.IsSeasonPack)
			}
			if p.Episode != 0 {
				t.Errorf("season pack must have no episode, got %d", p.Episode)
			}
			if p.Season != tc.season || p.EndSeason != tc.endSeason {
				t.Errorf("seasons: got %d-%d want %d-%d", p.Season, p.EndSeason, tc.season, tc.endSeason)
			}
			if p.IsCompleteSeries != tc.completeSeries {
				t.Errorf("complete series: got %v want %v", p.IsCompleteSeries, tc.completeSeries)
			}
		})
	}
}

func TestParse_Attributes(t *testing.T) {
	p := Parse("Movie.2023.2160p.Remux.DV.Atmos.x265")
	if p.Source != "remux" {
		t.Errorf("source: got %q want remux", p.Source)
	}
	want := []string{"REMUX", "DV", "Atmos"}
	if !reflect.DeepEqual(p.Attributes, want) {
		t.Errorf("attributes: got %v want %v", p.Attributes, want)
	}
}

func TestParse_HDRPrecedence(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Movie.2023.2160p.WEB-DL.HDR10+.x265", "HDR10+"},
		{"Movie.2023.2160p.WEB-DL.HDR10.x265", "HDR10"},
		{"Movie.2023.2160p.WEB-DL.HDR.x265", "HDR"},
	}
	for _, tc := range tests {
		p := Parse(tc.name)
		if len(p.Attributes) != 1 || p.Attributes[0] != tc.want {
			t.Errorf("%s: got %v want [%s]", tc.name, p.Attributes, tc.want)
		}
	}
}

func TestParse_BannedTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
	}{
		{"Movie.2024.CAM.x264", []string{"CAM"}},
		{"Movie.2024.HDCAM.x264", []string{"CAM"}},
		{"Movie.2024.TELESYNC.x264", []string{"TELESYNC"}},
		{"Movie.2024.DVDSCR.x264", []string{"SCREENER"}},
		{"Movie.2024.WORKPRINT", []string{"WORKPRINT"}},
		{"Movie.2024.1080p.BluRay.x264", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.name)
			if !reflect.DeepEqual(p.BannedTags, tc.tags) {
				t.Errorf("banned tags: got %v want %v", p.BannedTags, tc.tags)
			}
		})
	}
}

func TestParse_Unrecognized(t *testing.T) {
	p := Parse("completely unstructured text")
	if p.IsTV || p.Year != 0 || p.Resolution != 0 {
		t.Errorf("unrecognized title should parse empty, got %+v", p)
	}
	if p.Title != "completely unstructured text" {
		t.Errorf("title fallback: got %q", p.Title)
	}
}

func TestEpisodeNumbers(t *testing.T) {
	tests := []struct {
		name string
		want []int
	}{
		{"Show.S01E05.720p", []int{5}},
		{"Show.S01E05E07.720p", []int{5, 6, 7}},
		{"Show.S01.720p", nil},
		{"Movie.2020.720p", nil},
	}
	for _, tc := range tests {
		p := Parse(tc.name)
		if got := p.EpisodeNumbers(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}
