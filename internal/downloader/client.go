// Package downloader defines the boundary to external download clients and a
// registry that picks the right client for a release.
package downloader

import (
	"context"
	"errors"
	"time"

	"github.com/driftarr/driftarr/internal/release"
)

// Common errors for download clients.
var (
	ErrNotConnected = errors.New("client not connected")
	ErrAuthFailed   = errors.New("authentication failed")
	ErrNotFound     = errors.New("download not found")
)

// ClientType identifies a download client implementation.
type ClientType string

const (
	ClientTypeTransmission ClientType = "transmission"
	ClientTypeQBittorrent  ClientType = "qbittorrent"
	ClientTypeDeluge       ClientType = "deluge"
	ClientTypeSABnzbd      ClientType = "sabnzbd"
	ClientTypeNZBGet       ClientType = "nzbget"
)

// AddOptions specifies options for adding a download.
type AddOptions struct {
	URL         string // URL to a torrent/nzb file or a magnet link
	Name        string // display name for the download
	Category    string
	DownloadDir string // override the client's default directory
	Paused      bool
}

// Status represents the state of a download.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusPaused      Status = "paused"
	StatusCompleted   Status = "completed"
	StatusSeeding     Status = "seeding"
	StatusError       Status = "error"
	StatusUnknown     Status = "unknown"
)

// DownloadItem represents a download in progress or completed.
type DownloadItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Progress    float64   `json:"progress"` // 0-100
	Size        int64     `json:"size"`
	ETA         int64     `json:"eta"` // seconds, -1 if unavailable
	DownloadDir string    `json:"downloadDir"`
	AddedAt     time.Time `json:"addedAt,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Client is the common interface every download client implements.
type Client interface {
	Type() ClientType
	Protocol() release.Protocol

	Test(ctx context.Context) error

	Add(ctx context.Context, opts AddOptions) (string, error)
	List(ctx context.Context) ([]DownloadItem, error)
	Get(ctx context.Context, id string) (*DownloadItem, error)
	Remove(ctx context.Context, id string, deleteFiles bool) error
}

// DownloadClient is a configured client instance.
type DownloadClient struct {
	ID       int64
	Name     string
	Type     ClientType
	Enabled  bool
	Priority int
	Client   Client
}
