package rss

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Game News</title>
    <link>https://example.com</link>
    <description>Test</description>
    <item>
      <title>New MMO announced</title>
      <link>https://example.com/mmo</link>
      <description>&lt;p&gt;A new MMO was revealed&lt;/p&gt;</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Patch notes</title>
      <link>https://example.com/patch</link>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"https://a.test/feed, https://b.test/rss ,", []string{"https://a.test/feed", "https://b.test/rss"}},
	}
	for _, tt := range tests {
		if got := ParseList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	data := "feeds:\n  - https://a.test/feed\n  - \"  \"\n  - https://b.test/rss\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"https://a.test/feed", "https://b.test/rss"}
	if !reflect.DeepEqual(feeds, want) {
		t.Errorf("expected %v, got %v", want, feeds)
	}

	if _, err := LoadFeeds(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	feed, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if feed.Title != "Game News" {
		t.Errorf("expected title 'Game News', got %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	if feed.Items[0].PublishedParsed == nil {
		t.Error("expected parsed publish date")
	}
}

func TestFetcherFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	_, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.URL != srv.URL {
		t.Errorf("expected URL %q, got %q", srv.URL, fe.URL)
	}
}
