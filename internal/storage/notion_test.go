package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/deusflow/ideafeed/internal/idea"
)

func TestToPropertiesShapes(t *testing.T) {
	announced := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := idea.Record{
		idea.ColName:       {Kind: idea.KindTitle, Text: "Ashes of Creation"},
		idea.ColSummary:    {Kind: idea.KindRichText, Text: "Resumen"},
		idea.ColCategory:   {Kind: idea.KindSelect, Text: "Beta/Demo"},
		idea.ColViralScore: {Kind: idea.KindNumber, Number: 8},
		idea.ColAnnounced:  {Kind: idea.KindDate, Date: announced},
		idea.ColSourceURL:  {Kind: idea.KindURL, Text: "https://example.com"},
	}
	props := toProperties(rec)
	if len(props) != len(rec) {
		t.Fatalf("expected %d properties, got %d", len(rec), len(props))
	}

	title, ok := props[idea.ColName].(notionapi.TitleProperty)
	if !ok || len(title.Title) != 1 || title.Title[0].Text.Content != "Ashes of Creation" {
		t.Errorf("bad title property: %#v", props[idea.ColName])
	}
	sel, ok := props[idea.ColCategory].(notionapi.SelectProperty)
	if !ok || sel.Select.Name != "Beta/Demo" {
		t.Errorf("bad select property: %#v", props[idea.ColCategory])
	}
	num, ok := props[idea.ColViralScore].(notionapi.NumberProperty)
	if !ok || num.Number != 8 {
		t.Errorf("bad number property: %#v", props[idea.ColViralScore])
	}
	date, ok := props[idea.ColAnnounced].(notionapi.DateProperty)
	if !ok || date.Date == nil || date.Date.Start == nil || !time.Time(*date.Date.Start).Equal(announced) {
		t.Errorf("bad date property: %#v", props[idea.ColAnnounced])
	}
	u, ok := props[idea.ColSourceURL].(notionapi.URLProperty)
	if !ok || u.URL != "https://example.com" {
		t.Errorf("bad url property: %#v", props[idea.ColSourceURL])
	}
}

func TestPageTitle(t *testing.T) {
	props := notionapi.Properties{
		"Resumen": &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "ignored"}}},
		"Nombre":  &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: " Game "}, {PlainText: "A "}}},
	}
	if got := pageTitle(props); got != "Game A" {
		t.Errorf("expected %q, got %q", "Game A", got)
	}
	if got := pageTitle(notionapi.Properties{}); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}

// redirect sends every request to the test server, keeping the path.
type redirect struct{ target *url.URL }

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestNotionInsertPostsPage(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/pages" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1","properties":{}}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	store := NewNotion("secret", "0123456789abcdef0123456789abcdef", &http.Client{Transport: redirect{target}})

	err := store.Insert(context.Background(), idea.Record{
		idea.ColName: {Kind: idea.KindTitle, Text: "Game A"},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	parent, _ := body["parent"].(map[string]any)
	if parent["database_id"] != "0123456789abcdef0123456789abcdef" {
		t.Errorf("unexpected parent %v", body["parent"])
	}
	props, _ := body["properties"].(map[string]any)
	if _, ok := props[idea.ColName]; !ok {
		t.Errorf("title property missing from %v", props)
	}
}

func newRedirectedNotion(t *testing.T, h http.HandlerFunc) *Notion {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)
	return NewNotion("secret", "0123456789abcdef0123456789abcdef", &http.Client{Transport: redirect{target}})
}

func TestNotionColumns(t *testing.T) {
	store := newRedirectedNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/databases/0123456789abcdef0123456789abcdef" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "database",
			"id": "0123456789abcdef0123456789abcdef",
			"properties": {
				"Nombre": {"id": "title", "name": "Nombre", "type": "title", "title": {}},
				"Resumen": {"id": "a1", "name": "Resumen", "type": "rich_text", "rich_text": {}}
			}
		}`))
	})

	cols, err := store.Columns(context.Background())
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if len(cols) != 2 || !cols[idea.ColName] || !cols[idea.ColSummary] {
		t.Errorf("unexpected columns %v", cols)
	}
}

func titlePage(id, name string) string {
	return `{"object": "page", "id": "` + id + `", "properties": {"Nombre": {"id": "title", "type": "title", "title": [` +
		`{"type": "text", "text": {"content": "` + name + `"}, "plain_text": "` + name + `"}]}}}`
}

func TestNotionRecentNamesPaginates(t *testing.T) {
	var requests []map[string]any
	store := newRedirectedNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/databases/0123456789abcdef0123456789abcdef/query" {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Errorf("request is not JSON: %v", err)
		}
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if len(requests) == 1 {
			_, _ = w.Write([]byte(`{"object": "list", "results": [` +
				titlePage("p1", "Game A") + `,` + titlePage("p2", "") + `,` + titlePage("p3", "Game B") +
				`], "has_more": true, "next_cursor": "cursor-2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"object": "list", "results": [` +
			titlePage("p4", "Game C") + `,` + titlePage("p5", "Game D") +
			`], "has_more": true, "next_cursor": "cursor-3"}`))
	})

	names, err := store.RecentNames(context.Background(), 3)
	if err != nil {
		t.Fatalf("RecentNames: %v", err)
	}
	if len(names) != 3 || names[0] != "Game A" || names[1] != "Game B" || names[2] != "Game C" {
		t.Fatalf("unexpected names %v", names)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(requests))
	}

	sorts, _ := requests[0]["sorts"].([]any)
	if len(sorts) != 1 {
		t.Fatalf("expected one sort, got %v", requests[0]["sorts"])
	}
	sort, _ := sorts[0].(map[string]any)
	if sort["timestamp"] != "created_time" || sort["direction"] != "descending" {
		t.Errorf("expected newest-first sort, got %v", sort)
	}
	if requests[0]["page_size"] != 3.0 || requests[0]["start_cursor"] != nil {
		t.Errorf("unexpected first page request %v", requests[0])
	}
	if requests[1]["page_size"] != 1.0 || requests[1]["start_cursor"] != "cursor-2" {
		t.Errorf("unexpected second page request %v", requests[1])
	}
}

func TestNotionRecentNamesZeroLimit(t *testing.T) {
	store := newRedirectedNotion(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s %s", r.Method, r.URL.Path)
	})
	names, err := store.RecentNames(context.Background(), 0)
	if err != nil || len(names) != 0 {
		t.Errorf("expected no names, got %v (%v)", names, err)
	}
}
