package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/debuglog"
)

// Parser decodes response bodies into articles.
type Parser struct {
	feeds *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		feeds: gofeed.NewParser(),
	}
}

// ParseCollection decodes a JSON array of article records. Records that are
// not objects are skipped and logged; the rest keep their order.
func (p *Parser) ParseCollection(data []byte) ([]article.Article, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding article collection: %v", article.ErrParseFailed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: article collection is null", article.ErrParseFailed)
	}

	articles := make([]article.Article, 0, len(raw))
	for i, rec := range raw {
		var a article.Article
		if err := json.Unmarshal(rec, &a); err != nil {
			debuglog.WithFields(debuglog.Fields{"index": i}).Warnf("skipping record: %v", err)
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// ParseOne decodes a single JSON article object.
func (p *Parser) ParseOne(data []byte) (article.Article, error) {
	var a article.Article
	if len(bytes.TrimSpace(data)) == 0 {
		return a, fmt.Errorf("%w: empty article body", article.ErrParseFailed)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		if errors.Is(err, article.ErrParseFailed) {
			return a, err
		}
		return a, fmt.Errorf("%w: decoding article: %v", article.ErrParseFailed, err)
	}
	return a, nil
}

// ParseFeed decodes an RSS, Atom or JSON Feed document into articles.
func (p *Parser) ParseFeed(data []byte) ([]article.Article, error) {
	doc, err := p.feeds.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing feed: %v", article.ErrParseFailed, err)
	}

	articles := make([]article.Article, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item == nil {
			continue
		}
		articles = append(articles, fromItem(item))
	}
	return articles, nil
}

func fromItem(item *gofeed.Item) article.Article {
	a := article.Article{
		ID:      item.GUID,
		Title:   item.Title,
		Content: getContent(item),
		Image:   getImage(item),
	}
	if a.ID == "" {
		a.ID = item.Link
	}
	if len(item.Categories) > 0 {
		a.Type = item.Categories[0]
	}

	switch {
	case item.PublishedParsed != nil:
		a.CreatedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		a.CreatedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		a.CreatedAt = item.Published
	}
	return a
}

func getContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func getImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
