// Package grab sends accepted releases to download clients and records the
// outcome.
package grab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/driftarr/driftarr/internal/decision"
	"github.com/driftarr/driftarr/internal/downloader"
	"github.com/driftarr/driftarr/internal/release"
)

var (
	ErrReleaseRejected  = errors.New("release was not accepted")
	ErrNoDownloadClient = errors.New("no suitable download client available")
	ErrDownloadFailed   = errors.New("download failed")
)

const sendAttempts = 3

// Service hands accepted releases to download clients.
type Service struct {
	db       *sql.DB
	registry *downloader.Registry
	logger   zerolog.Logger
}

// NewService creates a grab service.
func NewService(db *sql.DB, registry *downloader.Registry, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		registry: registry,
		logger:   logger.With().Str("component", "grab").Logger(),
	}
}

// Request asks for one accepted release to be sent to a client.
type Request struct {
	Release  release.Candidate `json:"release"`
	Decision decision.Result   `json:"decision"`

	ClientID  int64  `json:"clientId,omitempty"` // optional: force a specific client
	MediaType string `json:"mediaType,omitempty"`
	MediaID   int64  `json:"mediaId,omitempty"`
}

// Result reports the outcome of a grab.
type Result struct {
	Success    bool   `json:"success"`
	DownloadID string `json:"downloadId,omitempty"`
	ClientID   int64  `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BulkResult aggregates outcomes for a batch of grabs.
type BulkResult struct {
	TotalRequested int       `json:"totalRequested"`
	Successful     int       `json:"successful"`
	Failed         int       `json:"failed"`
	Results        []*Result `json:"results"`
}

// Grab sends an accepted release to a download client. The decision gate is
// strict: a release that was not accepted is never sent, regardless of who
// asks.
func (s *Service) Grab(ctx context.Context, req Request) (*Result, error) {
	if !req.Decision.Accepted {
		reason := req.Decision.Reason
		if reason == "" {
			reason = string(req.Decision.Rejection)
		}
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("release was not accepted: %s", reason),
		}, ErrReleaseRejected
	}

	s.logger.Info().
		Str("title", req.Release.Title).
		Int64("indexerId", req.Release.IndexerID).
		Str("protocol", string(req.Release.Protocol)).
		Str("status", string(req.Decision.Status)).
		Msg("Grabbing release")

	client, err := s.registry.Select(req.Release.Protocol, req.ClientID)
	if err != nil {
		s.recordHistory(ctx, req, nil, "", err)
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("no suitable download client: %v", err),
		}, ErrNoDownloadClient
	}

	downloadID, err := s.sendToClient(ctx, client, req.Release)
	if err != nil {
		s.recordHistory(ctx, req, client, "", err)
		return &Result{
			Success:    false,
			ClientID:   client.ID,
			ClientName: client.Name,
			Error:      fmt.Sprintf("failed to send to client: %v", err),
		}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	s.recordHistory(ctx, req, client, downloadID, nil)

	s.logger.Info().
		Str("title", req.Release.Title).
		Str("downloadId", downloadID).
		Str("clientName", client.Name).
		Msg("Successfully grabbed release")

	return &Result{
		Success:    true,
		DownloadID: downloadID,
		ClientID:   client.ID,
		ClientName: client.Name,
	}, nil
}

// GrabBulk sends a batch of requests, continuing past individual failures.
func (s *Service) GrabBulk(ctx context.Context, reqs []Request) (*BulkResult, error) {
	result := &BulkResult{
		TotalRequested: len(reqs),
		Results:        make([]*Result, 0, len(reqs)),
	}

	for _, req := range reqs {
		grabResult, _ := s.Grab(ctx, req)
		result.Results = append(result.Results, grabResult)
		if grabResult.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

// sendToClient adds the release to the client, retrying transient failures
// with backoff. Magnet links are preferred for torrents when present.
func (s *Service) sendToClient(ctx context.Context, client *downloader.DownloadClient, rel release.Candidate) (string, error) {
	url := rel.DownloadURL
	if rel.Protocol == release.ProtocolTorrent && rel.MagnetURL != "" {
		url = rel.MagnetURL
	}

	var downloadID string
	err := retry.Do(
		func() error {
			id, err := client.Client.Add(ctx, downloader.AddOptions{
				URL:  url,
				Name: rel.Title,
			})
			if err != nil {
				return err
			}
			downloadID = id
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(sendAttempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn().
				Err(err).
				Uint("attempt", n+1).
				Str("client", client.Name).
				Msg("Retrying send to download client")
		}),
	)
	if err != nil {
		return "", err
	}

	// Some clients return no ID for duplicate adds; keep history addressable.
	if downloadID == "" {
		downloadID = uuid.NewString()
	}
	return downloadID, nil
}

// recordHistory writes the grab outcome. History failures are logged, never
// surfaced; they must not fail the grab itself.
func (s *Service) recordHistory(ctx context.Context, req Request, client *downloader.DownloadClient, downloadID string, grabErr error) {
	var clientName sql.NullString
	if client != nil {
		clientName = sql.NullString{String: client.Name, Valid: true}
	}

	successful := 0
	data := sql.NullString{}
	if grabErr == nil {
		successful = 1
	} else {
		data = sql.NullString{String: fmt.Sprintf(`{"error":%q}`, grabErr.Error()), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grab_history (indexer_id, media_type, media_id, title, protocol, download_id, client_name, successful, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sql.NullInt64{Int64: req.Release.IndexerID, Valid: req.Release.IndexerID != 0},
		req.MediaType, req.MediaID, req.Release.Title, string(req.Release.Protocol),
		sql.NullString{String: downloadID, Valid: downloadID != ""},
		clientName, successful, data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record grab history")
	}
}

// HistoryItem is one recorded grab.
type HistoryItem struct {
	ID         int64     `json:"id"`
	IndexerID  int64     `json:"indexerId"`
	MediaType  string    `json:"mediaType"`
	MediaID    int64     `json:"mediaId"`
	Title      string    `json:"title"`
	Protocol   string    `json:"protocol"`
	DownloadID string    `json:"downloadId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	Successful bool      `json:"successful"`
	CreatedAt  time.Time `json:"createdAt"`
}

// History returns recent grabs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, indexer_id, media_type, media_id, title, protocol, download_id, client_name, successful, created_at
		   FROM grab_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list grab history: %w", err)
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		var indexerID sql.NullInt64
		var protocol, downloadID, clientName sql.NullString
		var successful int
		if err := rows.Scan(&item.ID, &indexerID, &item.MediaType, &item.MediaID, &item.Title,
			&protocol, &downloadID, &clientName, &successful, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grab history: %w", err)
		}
		item.IndexerID = indexerID.Int64
		item.Protocol = protocol.String
		item.DownloadID = downloadID.String
		item.ClientName = clientName.String
		item.Successful = successful == 1
		items = append(items, item)
	}
	return items, rows.Err()
}
