package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/deusflow/ideafeed/internal/idea"
	"github.com/deusflow/ideafeed/internal/logger"
)

// Notion allows about three requests per second per integration.
const notionRPS = 3

// maxNotionPageSize is the largest page the query endpoint returns.
const maxNotionPageSize = 100

// Notion stores ideas as pages of a Notion database.
type Notion struct {
	client  *notionapi.Client
	db      notionapi.DatabaseID
	limiter *rate.Limiter
}

// NewNotion builds a store for database id. httpClient may be nil.
func NewNotion(token, databaseID string, httpClient *http.Client) *Notion {
	var opts []notionapi.ClientOption
	if httpClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(httpClient))
	}
	return &Notion{
		client:  notionapi.NewClient(notionapi.Token(token), opts...),
		db:      notionapi.DatabaseID(databaseID),
		limiter: rate.NewLimiter(rate.Limit(notionRPS), 1),
	}
}

// Columns returns the database's property names.
func (n *Notion) Columns(ctx context.Context) (map[string]bool, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	db, err := n.client.Database.Get(ctx, n.db)
	if err != nil {
		return nil, fmt.Errorf("failed to read Notion database: %w", err)
	}
	cols := make(map[string]bool, len(db.Properties))
	for name := range db.Properties {
		cols[name] = true
	}
	return cols, nil
}

// RecentNames pages through the database, newest page first, collecting up to
// limit non-empty titles.
func (n *Notion) RecentNames(ctx context.Context, limit int) ([]string, error) {
	var (
		names  []string
		cursor notionapi.Cursor
	)
	for len(names) < limit {
		if err := n.limiter.Wait(ctx); err != nil {
			return names, err
		}
		resp, err := n.client.Database.Query(ctx, n.db, &notionapi.DatabaseQueryRequest{
			Sorts: []notionapi.SortObject{
				{Timestamp: notionapi.TimestampCreated, Direction: notionapi.SortOrderDESC},
			},
			StartCursor: cursor,
			PageSize:    min(limit-len(names), maxNotionPageSize),
		})
		if err != nil {
			return names, fmt.Errorf("failed to query Notion database: %w", err)
		}

		for _, page := range resp.Results {
			if name := pageTitle(page.Properties); name != "" {
				names = append(names, name)
				if len(names) == limit {
					break
				}
			}
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	logger.Debug("Notion history loaded", "names", len(names))
	return names, nil
}

// Insert creates one page.
func (n *Notion) Insert(ctx context.Context, rec idea.Record) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := n.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: n.db,
		},
		Properties: toProperties(rec),
	})
	if err != nil {
		return fmt.Errorf("failed to create Notion page %q: %w", rec[idea.ColName].Text, err)
	}
	return nil
}

func toProperties(rec idea.Record) notionapi.Properties {
	props := make(notionapi.Properties, len(rec))
	for name, v := range rec {
		switch v.Kind {
		case idea.KindTitle:
			props[name] = notionapi.TitleProperty{Title: richText(v.Text)}
		case idea.KindRichText:
			props[name] = notionapi.RichTextProperty{RichText: richText(v.Text)}
		case idea.KindSelect:
			props[name] = notionapi.SelectProperty{Select: notionapi.Option{Name: v.Text}}
		case idea.KindNumber:
			props[name] = notionapi.NumberProperty{Number: v.Number}
		case idea.KindDate:
			d := notionapi.Date(v.Date)
			props[name] = notionapi.DateProperty{Date: &notionapi.DateObject{Start: &d}}
		case idea.KindURL:
			props[name] = notionapi.URLProperty{URL: v.Text}
		}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}

// pageTitle returns the plain text of the page's title property.
func pageTitle(props notionapi.Properties) string {
	for _, p := range props {
		var parts []notionapi.RichText
		switch t := p.(type) {
		case *notionapi.TitleProperty:
			parts = t.Title
		case notionapi.TitleProperty:
			parts = t.Title
		default:
			continue
		}
		var b strings.Builder
		for _, rt := range parts {
			if rt.PlainText != "" {
				b.WriteString(rt.PlainText)
			} else if rt.Text != nil {
				b.WriteString(rt.Text.Content)
			}
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}
