// Package release defines the candidate release type shared by the decision
// engine, the blocklist gate, and the grab orchestrator.
package release

// Protocol identifies how a release is delivered.
type Protocol string

const (
	ProtocolTorrent Protocol = "torrent"
	ProtocolUsenet  Protocol = "usenet"
)

// Candidate is an incoming release offer. It lives only for the duration of
// one evaluation and is never persisted by the decision engine.
type Candidate struct {
	Title       string   `json:"title"`
	Size        int64    `json:"size,omitempty"`
	InfoHash    string   `json:"infoHash,omitempty"`
	IndexerID   int64    `json:"indexerId,omitempty"`
	Protocol    Protocol `json:"protocol,omitempty"`
	DownloadURL string   `json:"downloadUrl,omitempty"`
	MagnetURL   string   `json:"magnetUrl,omitempty"`
}
