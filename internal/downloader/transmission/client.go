// Package transmission implements a Transmission RPC client.
package transmission

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/driftarr/driftarr/internal/downloader"
	"github.com/driftarr/driftarr/internal/release"
)

const sessionIDHeader = "X-Transmission-Session-Id"

// Config holds the configuration for a Transmission client.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
}

// Client talks to the Transmission RPC endpoint.
type Client struct {
	config     Config
	sessionID  string
	httpClient *http.Client
}

var _ downloader.Client = (*Client)(nil)

// New creates a new Transmission client.
func New(cfg Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Type returns the client type.
func (c *Client) Type() downloader.ClientType {
	return downloader.ClientTypeTransmission
}

// Protocol returns the protocol.
func (c *Client) Protocol() release.Protocol {
	return release.ProtocolTorrent
}

// Test verifies the client connection.
func (c *Client) Test(ctx context.Context) error {
	_, err := c.call(ctx, "session-get", nil)
	return err
}

// Add adds a torrent by URL or magnet link and returns its hash as the
// download ID.
func (c *Client) Add(ctx context.Context, opts downloader.AddOptions) (string, error) {
	if opts.URL == "" {
		return "", fmt.Errorf("download URL is required")
	}

	args := map[string]any{"filename": opts.URL}
	if opts.DownloadDir != "" {
		args["download-dir"] = opts.DownloadDir
	}
	if opts.Paused {
		args["paused"] = true
	}

	resp, err := c.call(ctx, "torrent-add", args)
	if err != nil {
		return "", err
	}
	return extractTorrentID(resp)
}

var torrentFields = []string{
	"id", "name", "status", "percentDone", "sizeWhenDone",
	"downloadDir", "hashString", "eta", "addedDate", "error", "errorString",
}

// List returns all torrents.
func (c *Client) List(ctx context.Context) ([]downloader.DownloadItem, error) {
	resp, err := c.call(ctx, "torrent-get", map[string]any{"fields": torrentFields})
	if err != nil {
		return nil, err
	}

	torrentsRaw, ok := resp.Arguments["torrents"].([]any)
	if !ok {
		return []downloader.DownloadItem{}, nil
	}

	items := make([]downloader.DownloadItem, 0, len(torrentsRaw))
	for _, t := range torrentsRaw {
		torrent, ok := t.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, mapToDownloadItem(torrent))
	}
	return items, nil
}

// Get retrieves a torrent by hash.
func (c *Client) Get(ctx context.Context, id string) (*downloader.DownloadItem, error) {
	resp, err := c.call(ctx, "torrent-get", map[string]any{
		"ids":    []string{id},
		"fields": torrentFields,
	})
	if err != nil {
		return nil, err
	}

	torrentsRaw, ok := resp.Arguments["torrents"].([]any)
	if !ok || len(torrentsRaw) == 0 {
		return nil, downloader.ErrNotFound
	}
	torrent, ok := torrentsRaw[0].(map[string]any)
	if !ok {
		return nil, downloader.ErrNotFound
	}

	item := mapToDownloadItem(torrent)
	return &item, nil
}

// Remove removes a torrent, optionally deleting local data.
func (c *Client) Remove(ctx context.Context, id string, deleteFiles bool) error {
	_, err := c.call(ctx, "torrent-remove", map[string]any{
		"ids":               []string{id},
		"delete-local-data": deleteFiles,
	})
	return err
}

type rpcRequest struct {
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type rpcResponse struct {
	Result    string         `json:"result"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, args map[string]any) (*rpcResponse, error) {
	req, err := c.buildRPCRequest(ctx, method, args)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Transmission rotates the session ID and answers 409 until the new one
	// is echoed back.
	if resp.StatusCode == http.StatusConflict {
		c.sessionID = resp.Header.Get(sessionIDHeader)
		if c.sessionID == "" {
			return nil, fmt.Errorf("received 409 but no session ID in response")
		}
		return c.call(ctx, method, args)
	}

	return parseRPCResponse(resp)
}

func (c *Client) buildRPCRequest(ctx context.Context, method string, args map[string]any) (*http.Request, error) {
	scheme := "http"
	if c.config.UseSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s:%d/transmission/rpc", scheme, c.config.Host, c.config.Port)

	body, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(sessionIDHeader, c.sessionID)
	}
	if c.config.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.config.Username + ":" + c.config.Password))
		req.Header.Set("Authorization", "Basic "+auth)
	}
	return req, nil
}

func parseRPCResponse(resp *http.Response) (*rpcResponse, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, downloader.ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if rpcResp.Result != "success" {
		return nil, fmt.Errorf("RPC error: %s", rpcResp.Result)
	}
	return &rpcResp, nil
}

func mapToDownloadItem(torrent map[string]any) downloader.DownloadItem {
	item := downloader.DownloadItem{
		ID:          getString(torrent, "hashString"),
		Name:        getString(torrent, "name"),
		Status:      mapStatus(getInt(torrent, "status")),
		Progress:    getFloat(torrent, "percentDone") * 100,
		Size:        int64(getFloat(torrent, "sizeWhenDone")),
		ETA:         int64(getFloat(torrent, "eta")),
		DownloadDir: getString(torrent, "downloadDir"),
	}
	if added := getInt(torrent, "addedDate"); added > 0 {
		item.AddedAt = time.Unix(int64(added), 0)
	}
	if errNum := getInt(torrent, "error"); errNum > 0 {
		item.Error = getString(torrent, "errorString")
		item.Status = downloader.StatusError
	}
	return item
}

func extractTorrentID(resp *rpcResponse) (string, error) {
	for _, key := range []string{"torrent-added", "torrent-duplicate"} {
		added, ok := resp.Arguments[key].(map[string]any)
		if !ok {
			continue
		}
		if hashString, ok := added["hashString"].(string); ok {
			return hashString, nil
		}
		if id, ok := added["id"].(float64); ok {
			return fmt.Sprintf("%d", int(id)), nil
		}
	}
	return "", fmt.Errorf("could not extract torrent ID from response")
}

// Transmission status codes, per the RPC spec.
func mapStatus(status int) downloader.Status {
	switch status {
	case 0:
		return downloader.StatusPaused
	case 1, 3:
		return downloader.StatusQueued
	case 2, 4:
		return downloader.StatusDownloading
	case 5, 6:
		return downloader.StatusSeeding
	default:
		return downloader.StatusUnknown
	}
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
