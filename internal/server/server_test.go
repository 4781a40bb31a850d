package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/music"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/gin-gonic/gin"
)

// fakeClient 固定响应的提供商客户端
type fakeClient struct {
	p          provider.Provider
	searchBody string
	fields     lyrics.Fields
	notFound   bool
}

func (f *fakeClient) Provider() provider.Provider { return f.p }

func (f *fakeClient) Search(ctx context.Context, q match.Query) ([]byte, error) {
	return []byte(f.searchBody), nil
}

func (f *fakeClient) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	if f.notFound {
		return nil, provider.ErrNotFound
	}
	return &lyrics.Bundle{Provider: f.p, Raw: json.RawMessage(`{"source":"fake"}`), Fields: f.fields}, nil
}

const (
	neteaseBody = `{"result":{"songs":[
		{"id":1,"name":"Song","artists":[{"name":"B"}]},
		{"id":2,"name":"Song","artists":[{"name":"A"}],"album":{"name":"LP"},"duration":200000}]}}`
	qqBody = `{"data":{"song":{"list":[{"songid":5,"songmid":"M5","songname":"Song","singer":[{"name":"A"}]}]}}}`
)

func newTestServer(clients ...music.Client) *Server {
	return New(music.NewManager(clients), Options{Mode: gin.TestMode})
}

func defaultClients() []music.Client {
	return []music.Client{
		&fakeClient{
			p:          provider.Netease,
			searchBody: neteaseBody,
			fields:     lyrics.Fields{lyrics.FieldLrc: {Format: lyrics.Lrc, Data: "[00:01.00]a\n[00:02.00]b"}},
		},
		&fakeClient{
			p:          provider.QQMusic,
			searchBody: qqBody,
			fields:     lyrics.Fields{lyrics.FieldQrc: {Format: lyrics.Qrc, Data: "broken"}},
		},
	}
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestProviders(t *testing.T) {
	s := newTestServer(defaultClients()...)
	w := get(t, s, "/api/providers")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode[struct {
		Providers []struct {
			Name        string `json:"name"`
			DisplayName string `json:"display_name"`
		} `json:"providers"`
		Supported []string `json:"supported"`
	}](t, w)
	if len(body.Providers) != 2 || body.Providers[1].Name != "qq" || body.Providers[1].DisplayName != "QQ Music" {
		t.Errorf("providers = %+v", body.Providers)
	}
	if len(body.Supported) != len(provider.All()) {
		t.Errorf("supported = %v", body.Supported)
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(defaultClients()...)

	t.Run("Ranked", func(t *testing.T) {
		w := get(t, s, "/api/search/163?title=Song&artist=A")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body)
		}
		results := decode[[]ResultDTO](t, w)
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		first := results[0]
		if first.ID != "2" || first.Provider != "netease" || first.Match == nil || *first.Match != match.Exact {
			t.Errorf("first = %+v", first)
		}
		if first.Album != "LP" || first.DurationMs != 200000 {
			t.Errorf("first = %+v", first)
		}
		if *results[1].Match != match.FuzzyTitleOnly {
			t.Errorf("second match = %s", results[1].Match)
		}
	})

	t.Run("QQMid", func(t *testing.T) {
		w := get(t, s, "/api/search/qq?title=Song")
		results := decode[[]ResultDTO](t, w)
		if len(results) != 1 || results[0].ID != "5" || results[0].Mid != "M5" {
			t.Errorf("results = %+v", results)
		}
	})

	t.Run("InvalidProvider", func(t *testing.T) {
		w := get(t, s, "/api/search/spotify?title=Song")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "sodamusic") {
			t.Errorf("body should list supported providers: %s", w.Body)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		w := get(t, s, "/api/search/kugou?title=Song")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("MissingTitle", func(t *testing.T) {
		if w := get(t, s, "/api/search/netease?artist=A"); w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		if w := get(t, s, "/api/search/netease?title=Song&duration=abc"); w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestSearchAll(t *testing.T) {
	s := newTestServer(defaultClients()...)
	w := get(t, s, "/api/search?title=Song&artist=A")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	results := decode[[]ResultDTO](t, w)
	if len(results) != 3 {
		t.Fatalf("expected 3 merged results, got %d", len(results))
	}
	if *results[0].Match != match.Exact || *results[2].Match != match.FuzzyTitleOnly {
		t.Errorf("unexpected order: %+v", results)
	}
}

func TestLyrics(t *testing.T) {
	s := newTestServer(append(defaultClients(), &fakeClient{p: provider.Kugou, notFound: true})...)

	t.Run("Parsed", func(t *testing.T) {
		w := get(t, s, "/api/lyrics/netease/7?parse=true")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body)
		}
		dto := decode[LyricsDTO](t, w)
		if !dto.Parsed || dto.Field != lyrics.FieldLrc || dto.Lyrics == nil || len(dto.Lyrics.Lines) != 2 {
			t.Errorf("dto = %+v", dto)
		}
		if dto.Raw != nil {
			t.Error("raw payload should be omitted when parsed")
		}
	})

	t.Run("RawByDefault", func(t *testing.T) {
		dto := decode[LyricsDTO](t, get(t, s, "/api/lyrics/netease/7"))
		if dto.Parsed || string(dto.Raw) != `{"source":"fake"}` {
			t.Errorf("dto = %+v", dto)
		}
	})

	t.Run("ParseFailureReturnsRaw", func(t *testing.T) {
		w := get(t, s, "/api/lyrics/qq/M5?parse=1")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		dto := decode[LyricsDTO](t, w)
		if dto.Parsed || dto.Raw == nil || dto.ParseError == "" {
			t.Errorf("dto = %+v", dto)
		}
	})

	t.Run("InvalidID", func(t *testing.T) {
		if w := get(t, s, "/api/lyrics/netease/abc"); w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("InvalidParseFlag", func(t *testing.T) {
		if w := get(t, s, "/api/lyrics/netease/7?parse=maybe"); w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if w := get(t, s, "/api/lyrics/kugou/ABC"); w.Code != http.StatusNotFound {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestFindLyrics(t *testing.T) {
	s := newTestServer(defaultClients()...)

	w := get(t, s, "/api/lyrics?title=Song&artist=A&parse=true")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	dto := decode[LyricsDTO](t, w)
	if dto.Song == nil || dto.Song.Provider != "netease" || dto.Song.ID != "2" || !dto.Parsed {
		t.Errorf("dto = %+v", dto)
	}

	if w := get(t, s, "/api/lyrics?title=Nothing+Like+It"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(defaultClients()...)

	w := get(t, s, "/health")
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(defaultClients()...)

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/search/netease", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodGet) {
			t.Errorf("allow methods = %q", got)
		}
		if w.Body.Len() != 0 {
			t.Errorf("preflight should have empty body, got %q", w.Body.String())
		}
	})

	t.Run("SimpleRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow origin = %q", got)
		}
	})
}

func TestIDParts(t *testing.T) {
	tests := []struct {
		id      search.ID
		wantID  string
		wantMid string
	}{
		{search.NumericID(42), "42", ""},
		{search.StringID("s1"), "s1", ""},
		{search.HashID("ABC"), "ABC", ""},
		{search.KeyedID{ID: "1", Key: "M1"}, "1", "M1"},
	}
	for _, tt := range tests {
		id, mid := idParts(tt.id)
		if id != tt.wantID || mid != tt.wantMid {
			t.Errorf("idParts(%#v) = %q, %q", tt.id, id, mid)
		}
	}
}
