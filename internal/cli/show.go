package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/media"
	"github.com/pders01/blogr/internal/route"
	"github.com/pders01/blogr/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a single article",
	Long: `Fetch a single article and print it rendered for the terminal.

Examples:
  blogr show 64f1c0ffee
  blogr show 64f1c0ffee --raw  # Markdown instead of rendered output`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var openCmd = &cobra.Command{
	Use:   "open ROUTE",
	Short: "Print what the reader shows at a route",
	Long: `Resolve a reader route and print the view behind it.

Routes:
  /                            Home feed
  /latest                      Latest articles
  /search?q=QUERY              Search results
  /article-detail/ID           A single article
  /find-an-idea, /starting-up, /marketing

Examples:
  blogr open /latest
  blogr open "/search?q=growth"`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)

	showCmd.Flags().Bool("raw", false, "print markdown without rendering")
}

func runShow(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	return printArticle(cmd, args[0], raw)
}

func printArticle(cmd *cobra.Command, id string, raw bool) error {
	repo, err := newRepository()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	art, err := repo.FetchOne(ctx, id)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			return fmt.Errorf("%s: %w", tui.MsgArticleNotFound, err)
		}
		return fmt.Errorf("%s: %w", tui.MsgArticleFetchFailed, err)
	}

	md := tui.ArticleMarkdown(art, media.NewLauncher(cfg))
	w := cmd.OutOrStdout()
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(cfg.UI.Article.WordWrapMaxWidth),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering article: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func runOpen(cmd *cobra.Command, args []string) error {
	r, err := route.Parse(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch r.Kind {
	case route.ArticleDetail:
		return printArticle(cmd, r.ID, false)
	case route.FindAnIdea, route.StartingUp, route.Marketing:
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(r.Kind.Label()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, tui.SectionBlurb(r.Kind))
		return nil
	}

	items, err := fetchAll(cmd)
	if err != nil {
		return err
	}

	switch r.Kind {
	case route.Latest:
		return printLatest(w, items, 1)
	case route.Search:
		return printSearch(w, items, r.Query)
	default:
		return printList(w, items)
	}
}
