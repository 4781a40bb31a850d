package kugou

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSearchBaseURL = "http://mobilecdn.kugou.com"
	DefaultLyricsBaseURL = "https://lyrics.kugou.com"
)

// Candidate 歌词搜索返回的候选，下载需要 id 和 accesskey
type Candidate struct {
	ID        string `json:"id"`
	AccessKey string `json:"accesskey"`
	Song      string `json:"song"`
	Singer    string `json:"singer"`
	Duration  int64  `json:"duration"`
	Score     int    `json:"score"`
}

type candidatesResponse struct {
	Status     int         `json:"status"`
	Candidates []Candidate `json:"candidates"`
}

// DownloadResponse 歌词下载响应，Content 为 base64
type DownloadResponse struct {
	Status  int    `json:"status"`
	Fmt     string `json:"fmt"`
	Charset string `json:"charset"`
	Content string `json:"content"`
}

// Client 酷狗音乐客户端。搜索和歌词使用不同的域名
type Client struct {
	http          *httpclient.Client
	searchBaseURL string
	lyricsBaseURL string
	logger        zerolog.Logger
}

type Option func(*Client)

func WithSearchBaseURL(u string) Option { return func(c *Client) { c.searchBaseURL = u } }

func WithLyricsBaseURL(u string) Option { return func(c *Client) { c.lyricsBaseURL = u } }

// NewClient 创建新的酷狗音乐客户端
func NewClient(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:          hc,
		searchBaseURL: DefaultSearchBaseURL,
		lyricsBaseURL: DefaultLyricsBaseURL,
		logger:        log.With().Str("component", "kugou").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(httpclient.WithComponent("kugou-http"))
	}
	return c
}

func (c *Client) Provider() provider.Provider { return provider.Kugou }

// Search 搜索歌曲
func (c *Client) Search(ctx context.Context, q match.Query) ([]byte, error) {
	params := url.Values{}
	params.Set("keyword", q.Keywords())
	params.Set("page", "1")
	params.Set("pagesize", "20")
	params.Set("showtype", "1")
	searchURL := c.searchBaseURL + "/api/v3/search/song?" + params.Encode()

	c.logger.Debug().Str("url", searchURL).Msg("Searching for song")
	body, err := c.http.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kugou search failed: %w", err)
	}
	return body, nil
}

// Lyrics 先按 hash 查歌词候选，再下载第一个候选的 LRC
func (c *Client) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	hash, ok := id.(search.HashID)
	if !ok {
		return nil, fmt.Errorf("%w: kugou expects a hash, got %T", search.ErrInvalidID, id)
	}

	cand, err := c.candidate(ctx, string(hash))
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ver", "1")
	params.Set("client", "pc")
	params.Set("id", cand.ID)
	params.Set("accesskey", cand.AccessKey)
	params.Set("fmt", "lrc")
	params.Set("charset", "utf8")
	downloadURL := c.lyricsBaseURL + "/download?" + params.Encode()

	c.logger.Debug().Str("url", downloadURL).Msg("Downloading lyrics")
	body, err := c.http.Get(ctx, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kugou lyric download failed: %w", err)
	}

	var resp DownloadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode kugou download response: %w", err)
	}

	fields := lyrics.Fields{}
	if resp.Content != "" {
		text, err := base64.StdEncoding.DecodeString(resp.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode kugou lyric content: %w", err)
		}
		fields[lyrics.FieldLrc] = lyrics.Payload{Format: lyrics.Lrc, Data: strings.TrimPrefix(string(text), "\ufeff")}
	}

	return &lyrics.Bundle{
		Provider: provider.Kugou,
		Raw:      body,
		Fields:   fields,
	}, nil
}

func (c *Client) candidate(ctx context.Context, hash string) (*Candidate, error) {
	params := url.Values{}
	params.Set("ver", "1")
	params.Set("man", "yes")
	params.Set("client", "pc")
	params.Set("hash", hash)
	searchURL := c.lyricsBaseURL + "/search?" + params.Encode()

	body, err := c.http.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kugou lyric search failed: %w", err)
	}

	var resp candidatesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode kugou lyric candidates: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("kugou hash %s: %w", hash, provider.ErrNotFound)
	}
	return &resp.Candidates[0], nil
}
