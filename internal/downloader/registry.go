package downloader

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/driftarr/driftarr/internal/release"
)

// ErrNoClient is returned when no enabled client can serve a protocol.
var ErrNoClient = errors.New("no suitable download client available")

// Registry holds configured download clients and selects one per protocol.
type Registry struct {
	mu      sync.RWMutex
	clients map[int64]*DownloadClient
	logger  zerolog.Logger
}

// NewRegistry creates an empty client registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		clients: make(map[int64]*DownloadClient),
		logger:  logger.With().Str("component", "downloader").Logger(),
	}
}

// Register adds or replaces a configured client.
func (r *Registry) Register(dc *DownloadClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[dc.ID] = dc
	r.logger.Debug().
		Int64("id", dc.ID).
		Str("name", dc.Name).
		Str("type", string(dc.Type)).
		Msg("Registered download client")
}

// Remove drops a client from the registry.
func (r *Registry) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// Get returns a configured client by ID.
func (r *Registry) Get(id int64) (*DownloadClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dc, ok := r.clients[id]
	return dc, ok
}

// List returns all configured clients ordered by priority, then ID.
func (r *Registry) List() []*DownloadClient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*DownloadClient, 0, len(r.clients))
	for _, dc := range r.clients {
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Select picks an enabled client for a protocol. A preferred client ID wins
// when that client is enabled and speaks the protocol; otherwise the
// highest-priority matching client is used.
func (r *Registry) Select(protocol release.Protocol, preferredID int64) (*DownloadClient, error) {
	if preferredID > 0 {
		if dc, ok := r.Get(preferredID); ok && dc.Enabled && dc.Client.Protocol() == protocol {
			return dc, nil
		}
	}

	for _, dc := range r.List() {
		if dc.Enabled && dc.Client.Protocol() == protocol {
			return dc, nil
		}
	}
	return nil, ErrNoClient
}

// TestAll runs each enabled client's connectivity test and returns the first
// failure per client keyed by ID.
func (r *Registry) TestAll(ctx context.Context) map[int64]error {
	failures := make(map[int64]error)
	for _, dc := range r.List() {
		if !dc.Enabled {
			continue
		}
		if err := dc.Client.Test(ctx); err != nil {
			failures[dc.ID] = err
			r.logger.Warn().Err(err).Str("name", dc.Name).Msg("Download client test failed")
		}
	}
	return failures
}
