package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/feed"
	"github.com/pders01/blogr/internal/listing"
	"github.com/pders01/blogr/internal/search"
)

var (
	apiServer *httptest.Server
	now       = time.Now().UTC().Truncate(time.Second)
)

func TestMain(m *testing.M) {
	apiServer = httptest.NewServer(newBlogAPI(fixtureArticles()))

	if err := waitForServer(apiServer.URL+"/api/blogs", 5*time.Second); err != nil {
		fmt.Printf("API server did not become ready in time: %v\n", err)
		apiServer.Close()
		os.Exit(1)
	}

	code := m.Run()

	apiServer.Close()
	os.Exit(code)
}

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 500 * time.Millisecond}
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// fixtureArticles is a 30 article collection: 25 created today, three
// within the last ten days, one older and one without a date.
func fixtureArticles() []article.Article {
	var items []article.Article
	for i := 0; i < 25; i++ {
		items = append(items, article.Article{
			ID:        fmt.Sprintf("today-%02d", i),
			Title:     fmt.Sprintf("Today %02d", i),
			Content:   "<p>Notes from the founders circle</p>",
			Type:      "startup",
			CreatedAt: now.Add(-time.Duration(i) * time.Second).Format(time.RFC3339),
		})
	}
	items = append(items,
		article.Article{ID: "week-1", Title: "Growth Hacking", Type: "marketing", CreatedAt: now.AddDate(0, 0, -3).Format(time.RFC3339)},
		article.Article{ID: "week-2", Title: "Pricing Pages", Content: "growth through pricing", CreatedAt: now.AddDate(0, 0, -5).Format(time.RFC3339)},
		article.Article{ID: "week-3", Title: "Idea Validation", Type: "idea", CreatedAt: now.AddDate(0, 0, -9).Format(time.RFC3339)},
		article.Article{ID: "old-1", Title: "Old Growth Story", CreatedAt: now.AddDate(0, 0, -30).Format(time.RFC3339)},
		article.Article{ID: "undated", Title: "Undated"},
	)
	return items
}

// newBlogAPI serves the collection and a single-item endpoint that only
// knows the first article, so other ids resolve through the fallback scan.
func newBlogAPI(items []article.Article) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/blogs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	})
	mux.HandleFunc("/api/blogs/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/blogs/")
		if id != items[0].ID {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items[0])
	})
	return mux
}

func setupTestEnvironment(t *testing.T) (*config.Config, *feed.Repository) {
	t.Helper()
	cfg := config.TestConfig()
	cfg.API.Endpoint = apiServer.URL + "/api/blogs"

	repo, err := feed.NewRepository(cfg)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	return cfg, repo
}

func TestIntegration_LatestPipeline(t *testing.T) {
	cfg, repo := setupTestEnvironment(t)

	all, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("Failed to fetch collection: %v", err)
	}
	if len(all) != 30 {
		t.Fatalf("Expected 30 articles, got %d", len(all))
	}

	latest := listing.Latest(all, now, cfg.Listing.LatestWindowDays)
	if len(latest) != 28 {
		t.Fatalf("Expected 28 recent articles, got %d", len(latest))
	}
	if latest[0].ID != "today-00" || latest[len(latest)-1].ID != "week-3" {
		t.Errorf("Unexpected order: first %s, last %s", latest[0].ID, latest[len(latest)-1].ID)
	}

	total := listing.TotalPages(len(latest), cfg.Listing.PageSize)
	if total != 2 {
		t.Fatalf("Expected 2 pages, got %d", total)
	}

	first := listing.Paginate(latest, cfg.Listing.PageSize, 1)
	second := listing.Paginate(latest, cfg.Listing.PageSize, 2)
	if len(first) != 19 || len(second) != 9 {
		t.Errorf("Expected pages of 19 and 9, got %d and %d", len(first), len(second))
	}
	if beyond := listing.Paginate(latest, cfg.Listing.PageSize, 3); len(beyond) != 0 {
		t.Errorf("Expected empty page past the end, got %d", len(beyond))
	}
}

func TestIntegration_Search(t *testing.T) {
	cfg, repo := setupTestEnvironment(t)

	all, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("Failed to fetch collection: %v", err)
	}

	filtered := search.Filter(all, "GROWTH")
	want := []string{"week-1", "week-2", "old-1"}
	if len(filtered) != len(want) {
		t.Fatalf("Expected %d matches, got %d", len(want), len(filtered))
	}
	for i, id := range want {
		if filtered[i].ID != id {
			t.Errorf("Match %d: expected %s, got %s", i, id, filtered[i].ID)
		}
	}

	if everything := search.Filter(all, ""); len(everything) != len(all) {
		t.Errorf("Empty query should return all %d articles, got %d", len(all), len(everything))
	}

	cfg.Search.Mode = config.SearchRanked
	searcher := search.New(cfg.Search, all)
	defer searcher.Close()

	results, err := searcher.Search("growth")
	if err != nil {
		t.Fatalf("Ranked search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 ranked results, got %d", len(results))
	}
	if results[0].Article.ID == "week-2" {
		t.Errorf("Content-only match should not outrank title matches")
	}
}

func TestIntegration_FetchOneWithFallback(t *testing.T) {
	_, repo := setupTestEnvironment(t)
	ctx := context.Background()

	direct, err := repo.FetchOne(ctx, "today-00")
	if err != nil {
		t.Fatalf("Direct fetch failed: %v", err)
	}
	if direct.Title != "Today 00" {
		t.Errorf("Expected 'Today 00', got %q", direct.Title)
	}

	scanned, err := repo.FetchOne(ctx, "week-3")
	if err != nil {
		t.Fatalf("Fallback fetch failed: %v", err)
	}
	if scanned.Title != "Idea Validation" {
		t.Errorf("Expected 'Idea Validation', got %q", scanned.Title)
	}

	_, err = repo.FetchOne(ctx, "does-not-exist")
	if !errors.Is(err, article.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIntegration_UnreachableAPI(t *testing.T) {
	cfg := config.TestConfig()
	cfg.API.Endpoint = "http://127.0.0.1:1/api/blogs"
	cfg.API.HTTPTimeout = 2 * time.Second

	repo, err := feed.NewRepository(cfg)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	_, err = repo.FetchAll(context.Background())
	if !errors.Is(err, article.ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
	if errors.Is(err, article.ErrNotFound) {
		t.Errorf("Unreachable API must not read as not found")
	}
}
