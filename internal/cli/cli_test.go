package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/route"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// blogServer serves items as the collection and each item under its id.
func blogServer(t *testing.T, items []article.Article) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/blogs" {
			_ = json.NewEncoder(w).Encode(items)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/blogs/")
		for _, a := range items {
			if a.ID == id {
				_ = json.NewEncoder(w).Encode(a)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs blogr with args against srv and returns what it printed.
func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = time.Now })

	if srv != nil {
		args = append(args, "--endpoint", srv.URL+"/api/blogs")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleArticles() []article.Article {
	return []article.Article{
		{ID: "a1", Title: "Growth Hacking 101", Type: "marketing", Content: "<p>Grow <b>fast</b></p>", CreatedAt: fixedNow.Add(-2 * time.Hour).Format(time.RFC3339)},
		{ID: "a2", Title: "Seed Rounds", Type: "startup", Content: "growth capital", CreatedAt: fixedNow.AddDate(0, 0, -3).Format(time.RFC3339)},
		{ID: "a3", Title: "Hiring Your First Engineer", Type: "startup", CreatedAt: fixedNow.AddDate(0, 0, -40).Format(time.RFC3339)},
	}
}

func TestList(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "list")
	require.NoError(t, err)

	first := strings.Index(out, "Growth Hacking 101")
	second := strings.Index(out, "Seed Rounds")
	third := strings.Index(out, "Hiring Your First Engineer")
	require.True(t, first >= 0 && second >= 0 && third >= 0, out)
	assert.Less(t, first, second)
	assert.Less(t, second, third, "collection order is kept")
}

func TestList_JSON(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "list", "--json")
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "a1", records[0]["_id"])
	assert.Equal(t, "Seed Rounds", records[1]["title"])
}

func TestList_Empty(t *testing.T) {
	srv := blogServer(t, nil)

	out, err := execute(t, srv, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No articles found")
}

func TestList_FetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, srv, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, article.ErrFetchFailed)
	assert.Contains(t, err.Error(), "Failed to fetch articles")
}

func TestLatest(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "latest")
	require.NoError(t, err)

	assert.Contains(t, out, "Growth Hacking 101")
	assert.Contains(t, out, "Seed Rounds")
	assert.NotContains(t, out, "Hiring Your First Engineer", "older than the window")
	assert.Less(t, strings.Index(out, "Growth Hacking 101"), strings.Index(out, "Seed Rounds"))
	assert.Contains(t, out, "page 1/1")
}

func TestLatest_Pages(t *testing.T) {
	var items []article.Article
	for i := 0; i < 25; i++ {
		items = append(items, article.Article{
			ID:        fmt.Sprintf("p%02d", i),
			Title:     fmt.Sprintf("Post number %02d", i),
			CreatedAt: fixedNow.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
	}
	srv := blogServer(t, items)

	tests := []struct {
		name     string
		args     []string
		footer   string
		contains string
		missing  string
	}{
		{name: "first page", args: []string{"latest"}, footer: "page 1/2", contains: "Post number 18", missing: "Post number 19"},
		{name: "second page", args: []string{"latest", "--page", "2"}, footer: "page 2/2", contains: "Post number 24", missing: "Post number 18"},
		{name: "clamped", args: []string{"latest", "--page", "9"}, footer: "page 2/2", contains: "Post number 19", missing: "Post number 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, srv, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.footer)
			assert.Contains(t, out, tt.contains)
			assert.NotContains(t, out, tt.missing)
		})
	}
}

func TestLatest_Empty(t *testing.T) {
	srv := blogServer(t, []article.Article{{ID: "old", Title: "Old", CreatedAt: "2001-01-01T00:00:00Z"}})

	out, err := execute(t, srv, "latest")
	require.NoError(t, err)
	assert.Contains(t, out, "No recent articles found")
}

func TestSearch(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "search", "GROWTH")
	require.NoError(t, err)
	assert.Contains(t, out, "Growth Hacking 101")
	assert.Contains(t, out, "Seed Rounds", "content matches count")
	assert.NotContains(t, out, "Hiring")
	assert.Contains(t, out, "2 results")
}

func TestSearch_NoResults(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "search", "kubernetes")
	require.NoError(t, err)
	assert.Contains(t, out, `No results for "kubernetes"`)
}

func TestSearch_RequiresQuery(t *testing.T) {
	_, err := execute(t, nil, "search")
	assert.Error(t, err)
}

func TestShow_Raw(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "show", "a1", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Growth Hacking 101")
	assert.Contains(t, out, "**marketing**")
	assert.Contains(t, out, "Cover image: *placeholder*")
	assert.Contains(t, out, "Grow **fast**")
}

func TestShow_Rendered(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	out, err := execute(t, srv, "show", "a2")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed Rounds")
	assert.Contains(t, out, "growth capital")
}

func TestShow_NotFound(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	_, err := execute(t, srv, "show", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, article.ErrNotFound)
	assert.Contains(t, err.Error(), "Article not found")
}

func TestOpen(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	tests := []struct {
		route string
		want  []string
	}{
		{route: "/", want: []string{"Growth Hacking 101", "Hiring Your First Engineer"}},
		{route: "/latest", want: []string{"Seed Rounds", "page 1/1"}},
		{route: "/search?q=hiring", want: []string{"Hiring Your First Engineer", "1 result"}},
		{route: "/article-detail/a3", want: []string{"Hiring Your First Engineer"}},
		{route: "/marketing", want: []string{"Marketing", "Getting the word out"}},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			out, err := execute(t, srv, "open", tt.route)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestOpen_UnknownRoute(t *testing.T) {
	_, err := execute(t, nil, "open", "/nowhere")
	assert.ErrorIs(t, err, route.ErrUnknownRoute)
}

func TestRoot_UnknownRouteFailsBeforeStarting(t *testing.T) {
	_, err := execute(t, nil, "--route", "/nowhere")
	assert.ErrorIs(t, err, route.ErrUnknownRoute)
}

func TestEndpointFlagOverridesConfig(t *testing.T) {
	srv := blogServer(t, sampleArticles())

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfgOnDisk := config.TestConfig()
	cfgOnDisk.API.Endpoint = "http://127.0.0.1:1/unreachable"
	require.NoError(t, config.Save(cfgOnDisk, path))

	out, err := execute(t, srv, "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed Rounds")
	assert.Equal(t, srv.URL+"/api/blogs", cfg.API.Endpoint)
}

func TestConfigGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, nil, "config", "generate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated default configuration at: "+path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEndpoint, loaded.API.Endpoint)
	assert.Equal(t, 19, loaded.Listing.PageSize)
	assert.Equal(t, 10, loaded.Listing.LatestWindowDays)
}

func TestVersion(t *testing.T) {
	SetBuildInfo("abc1234", "2025-03-14T12:00:00Z")

	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	for _, field := range []string{"blogr version", "commit:     abc1234", "built:", "go version:", "platform:"} {
		assert.Contains(t, out, field)
	}
}

func TestVersion_Short(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := execute(t, nil, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestVersion_JSON(t *testing.T) {
	out, err := execute(t, nil, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	for _, key := range []string{"version", "commit", "built", "goVersion", "platform"} {
		assert.Contains(t, info, key)
	}
}

func TestConfigGenerate_RejectsTraversal(t *testing.T) {
	_, err := execute(t, nil, "config", "generate", "../../config.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config path")
}

func TestInvalidConfigFlag(t *testing.T) {
	_, err := execute(t, nil, "version", "--config", "/tmp/../etc/blogr.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config path")
}
