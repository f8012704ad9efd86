package grab_test

import (
	"context"
	"errors"
	"testing"

	"github.com/driftarr/driftarr/internal/decision"
	"github.com/driftarr/driftarr/internal/downloader"
	"github.com/driftarr/driftarr/internal/grab"
	"github.com/driftarr/driftarr/internal/release"
	"github.com/driftarr/driftarr/internal/testutil"
)

// fakeClient implements downloader.Client in memory.
type fakeClient struct {
	protocol release.Protocol
	addCalls int
	lastOpts downloader.AddOptions
	addID    string
	addErr   error
	failures int // fail this many Add calls before succeeding
}

func (f *fakeClient) Type() downloader.ClientType  { return "fake" }
func (f *fakeClient) Protocol() release.Protocol   { return f.protocol }
func (f *fakeClient) Test(ctx context.Context) error { return nil }

func (f *fakeClient) Add(ctx context.Context, opts downloader.AddOptions) (string, error) {
	f.addCalls++
	f.lastOpts = opts
	if f.failures > 0 {
		f.failures--
		return "", errors.New("connection reset")
	}
	if f.addErr != nil {
		return "", f.addErr
	}
	return f.addID, nil
}

func (f *fakeClient) List(ctx context.Context) ([]downloader.DownloadItem, error) { return nil, nil }
func (f *fakeClient) Get(ctx context.Context, id string) (*downloader.DownloadItem, error) {
	return nil, downloader.ErrNotFound
}
func (f *fakeClient) Remove(ctx context.Context, id string, deleteFiles bool) error { return nil }

func newGrabService(t *testing.T, clients ...*downloader.DownloadClient) (*grab.Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	registry := downloader.NewRegistry(tdb.Logger)
	for _, dc := range clients {
		registry.Register(dc)
	}
	return grab.NewService(tdb.Conn, registry, tdb.Logger), tdb
}

func torrentClient(id int64, fake *fakeClient) *downloader.DownloadClient {
	return &downloader.DownloadClient{
		ID:      id,
		Name:    "fake-torrent",
		Type:    "fake",
		Enabled: true,
		Client:  fake,
	}
}

func acceptedRequest(title string) grab.Request {
	return grab.Request{
		Release: release.Candidate{
			Title:       title,
			Protocol:    release.ProtocolTorrent,
			DownloadURL: "http://indexer/dl/1",
			IndexerID:   7,
		},
		Decision:  decision.Result{Accepted: true, Status: decision.StatusNew},
		MediaType: "movie",
		MediaID:   42,
	}
}

func TestGrab_RejectedDecisionNeverSent(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: "hash1"}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	req := acceptedRequest("Movie.2021.1080p")
	req.Decision = decision.Result{
		Accepted:  false,
		Reason:    "score 40.0 is not better than existing 55.0",
		Rejection: decision.RejectionQualityNotBetter,
		Status:    decision.StatusDowngrade,
	}

	res, err := svc.Grab(context.Background(), req)
	if !errors.Is(err, grab.ErrReleaseRejected) {
		t.Fatalf("got %v, want ErrReleaseRejected", err)
	}
	if res.Success {
		t.Error("result should not be successful")
	}
	if fake.addCalls != 0 {
		t.Errorf("client called %d times for a rejected release", fake.addCalls)
	}
}

func TestGrab_SendsAndRecordsHistory(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: "abcdef"}
	svc, _ := newGrabService(t, torrentClient(1, fake))
	ctx := context.Background()

	res, err := svc.Grab(ctx, acceptedRequest("Movie.2021.1080p.BluRay"))
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if !res.Success || res.DownloadID != "abcdef" || res.ClientName != "fake-torrent" {
		t.Errorf("result: %+v", res)
	}
	if fake.addCalls != 1 {
		t.Errorf("add called %d times, want 1", fake.addCalls)
	}
	if fake.lastOpts.URL != "http://indexer/dl/1" {
		t.Errorf("sent URL %q", fake.lastOpts.URL)
	}

	items, err := svc.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d history items, want 1", len(items))
	}
	h := items[0]
	if !h.Successful || h.DownloadID != "abcdef" || h.Title != "Movie.2021.1080p.BluRay" ||
		h.MediaType != "movie" || h.MediaID != 42 || h.IndexerID != 7 {
		t.Errorf("history item: %+v", h)
	}
}

func TestGrab_PrefersMagnetForTorrents(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: "x"}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	req := acceptedRequest("Movie.2021.1080p")
	req.Release.MagnetURL = "magnet:?xt=urn:btih:abc"

	if _, err := svc.Grab(context.Background(), req); err != nil {
		t.Fatalf("grab: %v", err)
	}
	if fake.lastOpts.URL != "magnet:?xt=urn:btih:abc" {
		t.Errorf("sent %q, want the magnet link", fake.lastOpts.URL)
	}
}

func TestGrab_NoClientForProtocol(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent}
	svc, _ := newGrabService(t, torrentClient(1, fake))
	ctx := context.Background()

	req := acceptedRequest("Show.S01E01.1080p")
	req.Release.Protocol = release.ProtocolUsenet

	res, err := svc.Grab(ctx, req)
	if !errors.Is(err, grab.ErrNoDownloadClient) {
		t.Fatalf("got %v, want ErrNoDownloadClient", err)
	}
	if res.Success {
		t.Error("result should not be successful")
	}

	// Failure still lands in history.
	items, err := svc.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 1 || items[0].Successful {
		t.Errorf("history: %+v", items)
	}
}

func TestGrab_RetriesTransientFailures(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: "ok", failures: 2}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	res, err := svc.Grab(context.Background(), acceptedRequest("Movie.2021.720p"))
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if !res.Success || res.DownloadID != "ok" {
		t.Errorf("result: %+v", res)
	}
	if fake.addCalls != 3 {
		t.Errorf("add called %d times, want 3 (two failures then success)", fake.addCalls)
	}
}

func TestGrab_ExhaustedRetries(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addErr: errors.New("auth failed")}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	res, err := svc.Grab(context.Background(), acceptedRequest("Movie.2021.720p"))
	if !errors.Is(err, grab.ErrDownloadFailed) {
		t.Fatalf("got %v, want ErrDownloadFailed", err)
	}
	if res.Success {
		t.Error("result should not be successful")
	}
	if fake.addCalls != 3 {
		t.Errorf("add called %d times, want 3 attempts", fake.addCalls)
	}
}

func TestGrab_EmptyClientIDGetsFallback(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: ""}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	res, err := svc.Grab(context.Background(), acceptedRequest("Movie.2021.1080p"))
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if res.DownloadID == "" {
		t.Error("empty client ID should be replaced with a generated one")
	}
}

func TestGrab_PreferredClient(t *testing.T) {
	primary := &fakeClient{protocol: release.ProtocolTorrent, addID: "p"}
	secondary := &fakeClient{protocol: release.ProtocolTorrent, addID: "s"}
	dcPrimary := torrentClient(1, primary)
	dcSecondary := torrentClient(2, secondary)
	dcSecondary.Name = "second"
	dcSecondary.Priority = 10
	svc, _ := newGrabService(t, dcPrimary, dcSecondary)

	req := acceptedRequest("Movie.2021.1080p")
	req.ClientID = 2

	res, err := svc.Grab(context.Background(), req)
	if err != nil {
		t.Fatalf("grab: %v", err)
	}
	if res.ClientID != 2 || secondary.addCalls != 1 || primary.addCalls != 0 {
		t.Errorf("preferred client not used: %+v", res)
	}
}

func TestGrabBulk(t *testing.T) {
	fake := &fakeClient{protocol: release.ProtocolTorrent, addID: "x"}
	svc, _ := newGrabService(t, torrentClient(1, fake))

	rejected := acceptedRequest("Bad.Release")
	rejected.Decision = decision.Result{Accepted: false, Rejection: decision.RejectionBanned}

	bulk, err := svc.GrabBulk(context.Background(), []grab.Request{
		acceptedRequest("Good.One.1080p"),
		rejected,
		acceptedRequest("Good.Two.1080p"),
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if bulk.TotalRequested != 3 || bulk.Successful != 2 || bulk.Failed != 1 {
		t.Errorf("bulk counts: %+v", bulk)
	}
	if len(bulk.Results) != 3 {
		t.Errorf("got %d results", len(bulk.Results))
	}
}
