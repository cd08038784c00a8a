package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/content"
)

const titleWidth = 60

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// renderArticles writes one row per article: id, date, type and title.
func renderArticles(w io.Writer, items []article.Article, style article.DateStyle) error {
	table := newTable(w)
	table.Header("ID", "Date", "Type", "Title")

	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.ID,
			a.FormatDate(style),
			a.Type,
			content.Truncate(a.DisplayTitle(), titleWidth),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
