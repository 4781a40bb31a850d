package musixmatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"
)

func newTestServer(t *testing.T, withRichsync bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/track.search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("usertoken") != "token" || r.URL.Query().Get("q_artist") != "A" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"message":{"header":{"status_code":200},"body":{"track_list":[{"track":{"track_id":15445219,"track_name":"Song","artist_name":"A","album_name":"X","track_length":180}}]}}}`))
	})
	mux.HandleFunc("/track.richsync.get", func(w http.ResponseWriter, r *http.Request) {
		if !withRichsync {
			w.Write([]byte(`{"message":{"header":{"status_code":404},"body":[]}}`))
			return
		}
		w.Write([]byte(`{"message":{"header":{"status_code":200},"body":{"richsync":{"richsync_body":"[{\"ts\":1,\"te\":2,\"l\":[{\"c\":\"Hi\",\"o\":0}],\"x\":\"Hi\"}]"}}}}`))
	})
	mux.HandleFunc("/track.subtitle.get", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"header":{"status_code":200},"body":{"subtitle":{"subtitle_body":"[00:01.00]Hi\n[00:02.00]Bye"}}}}`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(url string) *Client {
	return NewClient(httpclient.New(httpclient.WithMaxRetries(1)), WithBaseURL(url), WithUserToken("token"))
}

func TestSearch(t *testing.T) {
	server := newTestServer(t, true)
	defer server.Close()

	body, err := newTestClient(server.URL).Search(context.Background(), match.Query{Title: "Song", Artists: []string{"A", "B"}})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	hits, err := search.Decode(provider.Musixmatch, body)
	if err != nil || len(hits) != 1 {
		t.Fatalf("decode = %v, %v", hits, err)
	}
	if id := search.Project(hits[0]).ID; id != search.NumericID(15445219) {
		t.Errorf("id = %v", id)
	}
}

func TestLyrics(t *testing.T) {
	t.Run("Richsync", func(t *testing.T) {
		server := newTestServer(t, true)
		defer server.Close()

		bundle, err := newTestClient(server.URL).Lyrics(context.Background(), search.NumericID(1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		doc, field, err := lyrics.NewResolver(nil).ResolveField(provider.Musixmatch, bundle.Fields)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if field != lyrics.FieldRichsync || len(doc.Lines) != 1 || len(doc.Lines[0].Words) != 1 {
			t.Errorf("resolved %s: %+v", field, doc.Lines)
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(bundle.Raw, &raw); err != nil {
			t.Fatalf("raw is not json: %v", err)
		}
		if _, ok := raw["richsync"]; !ok {
			t.Error("raw payload missing richsync response")
		}
	})

	t.Run("SubtitleOnly", func(t *testing.T) {
		server := newTestServer(t, false)
		defer server.Close()

		bundle, err := newTestClient(server.URL).Lyrics(context.Background(), search.NumericID(1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		doc, field, err := lyrics.NewResolver(nil).ResolveField(provider.Musixmatch, bundle.Fields)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if field != lyrics.FieldSubtitle || doc.Format != lyrics.Lrc || len(doc.Lines) != 2 {
			t.Errorf("resolved %s: %+v", field, doc)
		}
	})

	t.Run("NoToken", func(t *testing.T) {
		_, err := NewClient(nil).Lyrics(context.Background(), search.NumericID(1))
		if !errors.Is(err, ErrNoToken) {
			t.Fatalf("expected ErrNoToken, got %v", err)
		}
	})
}
