package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/listing"
	"github.com/pders01/blogr/internal/search"
	"github.com/pders01/blogr/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all articles",
	Long: `List the whole collection in the order the API returns it.

Examples:
  blogr list                   # Table of id, date, type and title
  blogr list --json            # Raw records as JSON`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List articles from the last days, newest first",
	Long: `List articles created within the recency window, newest first, one
page at a time.

Examples:
  blogr latest                 # First page
  blogr latest --page 2        # Second page`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search articles by title, content and type",
	Long: `Search the collection. Matching is a case-insensitive substring match
over title, content and type unless search.mode is "ranked".

Examples:
  blogr search growth
  blogr search "seed round"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(searchCmd)

	listCmd.Flags().Bool("json", false, "output as JSON")
	latestCmd.Flags().Int("page", 1, "page to show")
}

func fetchAll(cmd *cobra.Command) ([]article.Article, error) {
	repo, err := newRepository()
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	items, err := repo.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tui.MsgFetchFailed, err)
	}
	return items, nil
}

func runList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	items, err := fetchAll(cmd)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	return printList(cmd.OutOrStdout(), items)
}

func printList(w io.Writer, items []article.Article) error {
	if len(items) == 0 {
		fmt.Fprintln(w, tui.MsgNoArticles)
		return nil
	}
	return renderArticles(w, items, article.DateLong)
}

func runLatest(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")

	items, err := fetchAll(cmd)
	if err != nil {
		return err
	}
	return printLatest(cmd.OutOrStdout(), items, page)
}

func printLatest(w io.Writer, items []article.Article, page int) error {
	latest := listing.Latest(items, now(), cfg.Listing.LatestWindowDays)
	if len(latest) == 0 {
		fmt.Fprintln(w, tui.MsgNoRecentArticles)
		return nil
	}

	size := cfg.Listing.PageSize
	total := listing.TotalPages(len(latest), size)
	page = listing.ClampPage(page, total)

	if err := renderArticles(w, listing.Paginate(latest, size, page), article.DateShort); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.MsgPage(page, total))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	items, err := fetchAll(cmd)
	if err != nil {
		return err
	}
	return printSearch(cmd.OutOrStdout(), items, strings.Join(args, " "))
}

func printSearch(w io.Writer, items []article.Article, query string) error {
	query = strings.TrimSpace(query)

	searcher := search.New(cfg.Search, items)
	defer searcher.Close()

	results, err := searcher.Search(query)
	if err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, tui.MsgNoResultsFor(query))
		return nil
	}

	if err := renderArticles(w, search.Articles(results), article.DateShort); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.MsgResultsCount(len(results)))
	return nil
}
