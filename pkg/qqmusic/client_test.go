package qqmusic

import (
	"context"
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

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/soso/fcgi-bin/client_search_cp" || r.URL.Query().Get("w") != "晴天 周杰伦" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`callback({"code":0,"data":{"song":{"list":[{"songid":97773,"songmid":"0039MnYb0qxYhV","songname":"晴天","singer":[{"name":"周杰伦"}],"albumname":"叶惠美","interval":269}]}}})`))
	}))
	defer server.Close()

	client := NewClient(httpclient.New(httpclient.WithMaxRetries(1)), WithBaseURL(server.URL))
	body, err := client.Search(context.Background(), match.Query{Title: "晴天", Artists: []string{"周杰伦"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits, err := search.Decode(provider.QQMusic, body)
	if err != nil || len(hits) != 1 {
		t.Fatalf("decode = %v, %v", hits, err)
	}
	want := search.KeyedID{ID: "97773", Key: "0039MnYb0qxYhV"}
	if got := search.Project(hits[0]).ID; got != want {
		t.Errorf("id = %#v, want %#v", got, want)
	}
}

func TestLyrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://y.qq.com/" {
			t.Errorf("missing referer")
		}
		switch r.URL.Query().Get("songmid") {
		case "0039MnYb0qxYhV":
			w.Write([]byte(`MusicJsonCallback({"retcode":0,"code":0,"lyric":"[00&#58;01.00]hello\n[00&#58;02.00]bye","trans":"[00&#58;01.00]你好"})`))
		default:
			w.Write([]byte(`{"retcode":-1901,"code":-1901}`))
		}
	}))
	defer server.Close()

	client := NewClient(httpclient.New(httpclient.WithMaxRetries(1)), WithBaseURL(server.URL))

	bundle, err := client.Lyrics(context.Background(), search.KeyedID{ID: "97773", Key: "0039MnYb0qxYhV"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := bundle.Fields[lyrics.FieldQrc]; ok {
		t.Error("qrc should be absent")
	}
	doc, err := lyrics.Resolve(provider.QQMusic, bundle.Fields)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(doc.Lines) != 2 || doc.Lines[0].StartMs != 1000 || doc.Lines[0].Translation != "你好" {
		t.Errorf("unexpected lines: %+v", doc.Lines)
	}
	if bundle.Raw[0] != '{' {
		t.Errorf("raw payload should be unwrapped json: %s", bundle.Raw)
	}

	_, err = client.Lyrics(context.Background(), search.KeyedID{Key: "missing"})
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = client.Lyrics(context.Background(), search.NumericID(1))
	if !errors.Is(err, search.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
