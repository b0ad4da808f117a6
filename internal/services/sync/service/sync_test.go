package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"devpulse/internal/modkit"
	perr "devpulse/internal/platform/errors"
	"devpulse/internal/platform/store"
	"devpulse/internal/services/sync/domain"
)

// fakeTag implements store.CommandTag
type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return fmt.Sprintf("FAKE %d", t.n) }
func (t fakeTag) RowsAffected() int64 { return t.n }

// fakeRow hands back the user row for ClaimSyncSlot
type fakeRow struct {
	id   int64
	prev *time.Time
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.id
	*(dest[1].(**time.Time)) = r.prev
	return nil
}

// fakeDB is an in memory TxRunner covering the sync repo's statements
type fakeDB struct {
	mu sync.Mutex

	userID     int64
	lastSynced *time.Time

	casLoses   bool
	summaryErr error

	execs        []string
	dailyBatches int
	repoBatches  int
	summaries    int
	profiles     int
}

func newFakeDB() *fakeDB { return &fakeDB{userID: 7} }

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)

	switch {
	case strings.Contains(sql, "ON CONFLICT (login) DO NOTHING"):
		return fakeTag{1}, nil
	case strings.Contains(sql, "SET last_synced_at = $2"):
		if f.casLoses {
			return fakeTag{0}, nil
		}
		at := args[1].(time.Time)
		f.lastSynced = &at
		return fakeTag{1}, nil
	case strings.Contains(sql, "SET last_synced_at = $3"):
		prev, _ := args[2].(*time.Time)
		f.lastSynced = prev
		return fakeTag{1}, nil
	case strings.Contains(sql, "INSERT INTO daily_aggregates"):
		f.dailyBatches++
		return fakeTag{1}, nil
	case strings.Contains(sql, "INSERT INTO repo_snapshots"):
		f.repoBatches++
		return fakeTag{1}, nil
	case strings.Contains(sql, "github_id"):
		f.profiles++
		return fakeTag{1}, nil
	case strings.Contains(sql, "current_streak"):
		if f.summaryErr != nil {
			return nil, f.summaryErr
		}
		f.summaries++
		return fakeTag{1}, nil
	}
	return fakeTag{1}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("unexpected Query in sync repo")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, _ ...any) store.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.Contains(sql, "SELECT id, last_synced_at") {
		return fakeRow{err: errors.New("unexpected QueryRow: " + sql)}
	}
	return fakeRow{id: f.userID, prev: f.lastSynced}
}

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

// ghFixture serves a minimal provider surface and counts hits
func ghFixture(t *testing.T, today time.Time) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	day := func(off int) string { return today.AddDate(0, 0, off).Format("2006-01-02") }

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 583231, "login": "octocat", "name": "The Octocat",
			"followers": 3938, "public_repos": 8,
			"created_at": "2011-01-25T18:44:36Z",
		})
	})
	mux.HandleFunc("/search/commits", func(w http.ResponseWriter, r *http.Request) {
		hits++
		items := []map[string]any{}
		for i, d := range []string{day(0), day(0), day(-1)} {
			items = append(items, map[string]any{
				"sha": fmt.Sprintf("s%d", i),
				"commit": map[string]any{
					"committer": map[string]any{"date": d + "T10:00:00Z"},
				},
				"repository": map[string]any{"id": int64(42), "full_name": "octocat/hello", "language": "Go"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": 3, "items": items})
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		hits++
		q := r.URL.Query().Get("q")
		total := 0
		switch {
		case strings.Contains(q, "reviewed-by:"):
			total = 2
		case strings.Contains(q, "type:pr"):
			total = 4
		case strings.Contains(q, "type:issue"):
			total = 1
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": total})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 42, "name": "hello", "full_name": "octocat/hello", "language": "Go", "stargazers_count": 9},
		})
	})
	return httptest.NewServer(mux), &hits
}

func testSvc(t *testing.T, db *fakeDB, baseURL string, notifiers ...domain.NotifierPort) *Svc {
	t.Helper()
	s := New(modkit.Deps{PG: db}, Config{
		BaseURL:    baseURL,
		RatePerSec: 10000,
		Burst:      10000,
		MaxRetries: 1,
		RetryBase:  time.Millisecond,
	}, notifiers...)
	return s
}

func TestSync_FullPassPersistsAndReports(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	srv, _ := ghFixture(t, today)
	defer srv.Close()

	db := newFakeDB()
	s := testSvc(t, db, srv.URL)
	s.now = func() time.Time { return today }

	res, err := s.Sync(context.Background(), domain.Request{Login: "Octocat"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Status != domain.StatusOK || res.Partial {
		t.Fatalf("status/partial = %s/%v, want ok/false", res.Status, res.Partial)
	}
	if res.Login != "octocat" {
		t.Fatalf("login not normalized: %q", res.Login)
	}
	if res.SyncID == "" {
		t.Fatalf("expected a sync id on the result")
	}
	if got := res.Summary.Stats; got.Commits != 3 || got.PullRequests != 4 || got.Issues != 1 || got.Reviews != 2 || got.Repositories != 1 {
		t.Fatalf("stats = %+v", got)
	}
	// 3*10 + 4*25 + 1*15 + 2*20 = 185
	if res.Summary.Productivity != 185 {
		t.Fatalf("productivity = %d, want 185", res.Summary.Productivity)
	}
	// 3*2 + 4*10 + 2*5 = 56, first rung of the ladder
	if res.Summary.XP != 56 {
		t.Fatalf("xp = %d, want 56", res.Summary.XP)
	}
	if res.Summary.Level != 1 || res.Summary.LevelTitle != "Newcomer" {
		t.Fatalf("level = %d %q, want 1 Newcomer", res.Summary.Level, res.Summary.LevelTitle)
	}
	// commits on today and yesterday: streak 2
	if res.Summary.CurrentStreak != 2 || res.Summary.LongestStreak != 2 {
		t.Fatalf("streaks = %d/%d, want 2/2", res.Summary.CurrentStreak, res.Summary.LongestStreak)
	}
	if res.DaysWritten != 2 || res.ReposWritten != 1 {
		t.Fatalf("writes = %d days / %d repos, want 2/1", res.DaysWritten, res.ReposWritten)
	}
	if db.profiles != 1 || db.summaries != 1 || db.dailyBatches != 1 || db.repoBatches != 1 {
		t.Fatalf("persist calls = %d/%d/%d/%d", db.profiles, db.dailyBatches, db.repoBatches, db.summaries)
	}
	timeoutSet := false
	for _, sql := range db.execs {
		if strings.Contains(sql, "statement_timeout") {
			timeoutSet = true
		}
	}
	if !timeoutSet {
		t.Fatalf("expected the persist tx to set a statement timeout")
	}
	// slot stays claimed after success
	if db.lastSynced == nil || !db.lastSynced.Equal(today) {
		t.Fatalf("last synced = %v, want claim stamp kept", db.lastSynced)
	}
}

func TestSync_CooldownRejectsWithoutProviderCalls(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	srv, hits := ghFixture(t, today)
	defer srv.Close()

	db := newFakeDB()
	recent := today.Add(-time.Minute)
	db.lastSynced = &recent

	s := testSvc(t, db, srv.URL)
	s.now = func() time.Time { return today }

	_, err := s.Sync(context.Background(), domain.Request{Login: "octocat"})
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("err = %v, want cooldown rejection", err)
	}
	// structured retry hint: default 10m cooldown minus the elapsed minute
	if d, ok := perr.RetryAfterOf(err); !ok || d != 9*time.Minute {
		t.Fatalf("retry hint = (%v, %v), want (9m, true)", d, ok)
	}
	if *hits != 0 {
		t.Fatalf("provider hits = %d, want none during cooldown", *hits)
	}
	if db.lastSynced == nil || !db.lastSynced.Equal(recent) {
		t.Fatalf("last synced mutated on rejection: %v", db.lastSynced)
	}
}

func TestSync_LostClaimRaceRejects(t *testing.T) {
	srv, _ := ghFixture(t, time.Now().UTC())
	defer srv.Close()

	db := newFakeDB()
	db.casLoses = true
	s := testSvc(t, db, srv.URL)

	_, err := s.Sync(context.Background(), domain.Request{Login: "octocat"})
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("err = %v, want rejection after losing the claim race", err)
	}
}

func TestSync_AccountFetchFailureReleasesSlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	db := newFakeDB()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	db.lastSynced = &old

	s := testSvc(t, db, srv.URL)
	s.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	_, err := s.Sync(context.Background(), domain.Request{Login: "octocat"})
	if err == nil {
		t.Fatal("want error when the account fetch fails")
	}
	// failed pass must not burn the cooldown slot
	if db.lastSynced == nil || !db.lastSynced.Equal(old) {
		t.Fatalf("last synced = %v, want previous stamp restored", db.lastSynced)
	}
	if db.summaries != 0 || db.dailyBatches != 0 {
		t.Fatalf("nothing should persist on a failed fetch")
	}
}

func TestSync_PersistFailureRestoresStamp(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	srv, _ := ghFixture(t, today)
	defer srv.Close()

	db := newFakeDB()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	db.lastSynced = &old
	db.summaryErr = errors.New("deadlock detected")

	s := testSvc(t, db, srv.URL)
	s.now = func() time.Time { return today }

	_, err := s.Sync(context.Background(), domain.Request{Login: "octocat"})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want DB code from the failed persist", err)
	}
	// a failed write must not burn the cooldown slot
	if db.lastSynced == nil || !db.lastSynced.Equal(old) {
		t.Fatalf("last synced = %v, want previous stamp restored", db.lastSynced)
	}
	if db.summaries != 0 {
		t.Fatalf("summary writes = %d, want none recorded", db.summaries)
	}
}

func TestSync_CrawlFloor(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	full, _ := ghFixture(t, today)
	defer full.Close()

	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search/commits") {
			mu.Lock()
			queries = append(queries, r.URL.Query().Get("q"))
			mu.Unlock()
		}
		resp, err := http.Get(full.URL + r.URL.String())
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer func() { _ = resp.Body.Close() }()
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	defer srv.Close()

	// default: fixed all time origin, so re-syncs stay cumulative
	s := testSvc(t, newFakeDB(), srv.URL)
	s.now = func() time.Time { return today }
	if _, err := s.Sync(context.Background(), domain.Request{Login: "octocat"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// rolling window override narrows the crawl
	windowed := New(modkit.Deps{PG: newFakeDB()}, Config{
		BaseURL:    srv.URL,
		WindowDays: 30,
		RatePerSec: 10000,
		Burst:      10000,
		MaxRetries: 1,
		RetryBase:  time.Millisecond,
	})
	windowed.now = func() time.Time { return today }
	if _, err := windowed.Sync(context.Background(), domain.Request{Login: "octocat"}); err != nil {
		t.Fatalf("Sync with window: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 2 {
		t.Fatalf("commit searches = %d, want 2", len(queries))
	}
	if !strings.Contains(queries[0], "committer-date:>=2008-01-01") {
		t.Fatalf("default floor query = %q, want the fixed epoch", queries[0])
	}
	if !strings.Contains(queries[1], "committer-date:>=2026-02-08") {
		t.Fatalf("window floor query = %q, want today minus 30 days", queries[1])
	}
}

func TestSync_RateLimitedMidCrawlPersistsPartial(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	full, _ := ghFixture(t, today)
	defer full.Close()

	// proxy the fixture but refuse all count searches
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search/issues") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		resp, err := http.Get(full.URL + r.URL.String())
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer func() { _ = resp.Body.Close() }()
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	defer srv.Close()

	db := newFakeDB()
	s := testSvc(t, db, srv.URL)
	s.now = func() time.Time { return today }

	res, err := s.Sync(context.Background(), domain.Request{Login: "octocat"})
	if err != nil {
		t.Fatalf("Sync should degrade, not fail: %v", err)
	}
	if res.Status != domain.StatusRateLimited || !res.Partial {
		t.Fatalf("status/partial = %s/%v, want rate_limited/true", res.Status, res.Partial)
	}
	if got := res.Summary.Stats; got.Commits != 3 || got.PullRequests != 0 || got.Issues != 0 || got.Reviews != 0 {
		t.Fatalf("stats = %+v, want commit data with zeroed counts", got)
	}
	if db.summaries != 1 || db.dailyBatches != 1 {
		t.Fatalf("partial data should still persist")
	}
	// the pass produced data, so the slot stays claimed
	if db.lastSynced == nil || !db.lastSynced.Equal(today) {
		t.Fatalf("last synced = %v, want claim stamp kept", db.lastSynced)
	}
}

func TestSync_NotifiersReceiveResult(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	srv, _ := ghFixture(t, today)
	defer srv.Close()

	n := &captureNotifier{}
	db := newFakeDB()
	s := testSvc(t, db, srv.URL, n)
	s.now = func() time.Time { return today }

	if _, err := s.Sync(context.Background(), domain.Request{Login: "octocat"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	s.Wait()

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.got) != 1 || n.got[0].Login != "octocat" {
		t.Fatalf("notifier results = %+v, want one for octocat", n.got)
	}
}

func TestSync_CollaboratorsGetAllThreeCalls(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	srv, _ := ghFixture(t, today)
	defer srv.Close()

	c := &captureCollaborator{}
	db := newFakeDB()
	s := testSvc(t, db, srv.URL, NewCollaboratorNotifier(c))
	s.now = func() time.Time { return today }

	if _, err := s.Sync(context.Background(), domain.Request{Login: "octocat"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	s.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.achievements != 1 || c.insights != 1 || c.recalcs != 1 {
		t.Fatalf("collaborator calls = %d/%d/%d, want 1/1/1", c.achievements, c.insights, c.recalcs)
	}
	if c.userID != db.userID {
		t.Fatalf("collaborator user id = %d, want %d", c.userID, db.userID)
	}
}

func TestSync_EmptyLoginIsInvalid(t *testing.T) {
	db := newFakeDB()
	s := testSvc(t, db, "http://localhost:0")

	_, err := s.Sync(context.Background(), domain.Request{Login: "  "})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

type captureNotifier struct {
	mu  sync.Mutex
	got []domain.Result
}

func (c *captureNotifier) Name() string { return "capture" }

func (c *captureNotifier) Notify(_ context.Context, res domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, res)
	return nil
}

type captureCollaborator struct {
	mu           sync.Mutex
	achievements int
	insights     int
	recalcs      int
	userID       int64
}

func (c *captureCollaborator) NotifyAchievements(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.achievements++
	c.userID = userID
	return nil
}

func (c *captureCollaborator) NotifyInsights(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insights++
	c.userID = userID
	return nil
}

func (c *captureCollaborator) NotifyChallengeRecalc(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recalcs++
	return nil
}
