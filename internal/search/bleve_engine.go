package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/content"
	"github.com/pders01/blogr/internal/debuglog"
)

// DefaultLimit caps ranked results when no limit is configured.
const DefaultLimit = 50

// Ranked is a relevance-ordered searcher backed by an in-memory bleve index
// over one snapshot. Nothing is written to disk; Close releases the index.
type Ranked struct {
	items    []article.Article
	idx      bleve.Index
	limit    int
	fallback *Engine
}

// NewRanked indexes items into a memory-only index.
func NewRanked(items []article.Article, limit int) (*Ranked, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	batch := idx.NewBatch()
	for i, a := range items {
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"title":   a.Title,
			"content": content.PlainText(a.Content),
			"type":    a.Type,
		}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("indexing article %s: %w", a.Key(i), err)
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("indexing articles: %w", err)
		}
	}

	r := &Ranked{
		items:    items,
		idx:      idx,
		limit:    limit,
		fallback: NewEngine(items),
	}

	n, err := r.DocCount()
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("counting indexed articles: %w", err)
	}
	debuglog.Debugf("ranked index built with %d of %d articles", n, len(items))
	return r, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = false
	title.IncludeTermVectors = true

	body := bleve.NewTextFieldMapping()
	body.Analyzer = standard.Name
	body.Store = false
	body.IncludeTermVectors = false

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = standard.Name
	kind.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("content", body)
	dm.AddFieldMappingsAt("type", kind)

	im.DefaultMapping = dm
	return im
}

// Search returns up to the configured limit of matches, best first.
// Queries shorter than two characters, which the index cannot rank, use
// the substring engine and keep snapshot order.
func (r *Ranked) Search(query string) ([]*Result, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 2 {
		return r.fallback.Search(query)
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return r.fallback.Search(query)
	}

	// OR of per-term matches across fields, title boosted highest
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qs = append(qs,
			fieldQuery(bleve.NewMatchQuery(tok), "title", 4.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "title", 3.5),
			fieldQuery(bleve.NewMatchQuery(tok), "type", 2.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "type", 1.8),
			fieldQuery(bleve.NewMatchQuery(tok), "content", 1.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "content", 0.8),
		)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), r.limit, 0, false)
	res, err := r.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(r.items) {
			debuglog.Warnf("search hit with unknown document id %q", h.ID)
			continue
		}
		a := r.items[i]
		out = append(out, &Result{
			Article: a,
			Index:   i,
			Score:   h.Score,
			Matches: matchesFor(a, tokens),
		})
	}
	return out, nil
}

type boostable interface {
	bleveQuery.FieldableQuery
	SetBoost(b float64)
}

func fieldQuery(q boostable, field string, boost float64) bleveQuery.Query {
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// DocCount reports total documents in the index.
func (r *Ranked) DocCount() (int, error) {
	n, err := r.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *Ranked) Close() error {
	return r.idx.Close()
}
