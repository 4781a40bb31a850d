package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://music.163.com"

type lyricBlock struct {
	Lyric *string `json:"lyric"`
}

// LyricResponse 网易云 /api/song/lyric/v1 响应，各字段缺失时为 nil
type LyricResponse struct {
	Code   int         `json:"code"`
	Lrc    *lyricBlock `json:"lrc"`
	Tlyric *lyricBlock `json:"tlyric"`
	Klyric *lyricBlock `json:"klyric"`
	Yrc    *lyricBlock `json:"yrc"`

	Qfy     bool `json:"qfy"` // 标记该曲目有逐字歌词
	NoLyric bool `json:"nolyric"`
}

// Client 网易云音乐客户端
type Client struct {
	http    *httpclient.Client
	baseURL string
	cookie  string
	logger  zerolog.Logger
}

// Option 客户端选项
type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithCookie 设置请求 Cookie，部分歌词需要登录
func WithCookie(cookie string) Option { return func(c *Client) { c.cookie = cookie } }

// NewClient 创建新的网易云音乐客户端
func NewClient(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
		logger:  log.With().Str("component", "netease").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(httpclient.WithComponent("netease-http"))
	}
	return c
}

func (c *Client) Provider() provider.Provider { return provider.Netease }

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Referer", "https://music.163.com/")
	// 设置Cookie
	if c.cookie != "" {
		h.Set("Cookie", c.cookie)
	}
	return h
}

// Search 搜索歌曲，返回原始响应体
func (c *Client) Search(ctx context.Context, q match.Query) ([]byte, error) {
	params := url.Values{}
	params.Set("s", q.Keywords())
	params.Set("type", "1")
	params.Set("limit", "30")
	params.Set("offset", "0")
	searchURL := c.baseURL + "/api/search/get/web?" + params.Encode()

	c.logger.Debug().Str("url", searchURL).Msg("Searching for song")
	body, err := c.http.Get(ctx, searchURL, c.header())
	if err != nil {
		return nil, fmt.Errorf("netease search failed: %w", err)
	}
	return body, nil
}

// Lyrics 获取歌词，返回原始响应和拆出的各字段
func (c *Client) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	nid, ok := id.(search.NumericID)
	if !ok {
		return nil, fmt.Errorf("%w: netease expects a numeric id, got %T", search.ErrInvalidID, id)
	}

	params := url.Values{}
	params.Set("id", strconv.FormatInt(int64(nid), 10))
	for _, k := range []string{"lv", "kv", "tv", "rv", "yv", "ytv", "yrv"} {
		params.Set(k, "-1")
	}
	lyricURL := c.baseURL + "/api/song/lyric/v1?" + params.Encode()

	c.logger.Debug().Str("url", lyricURL).Msg("Fetching lyrics")
	body, err := c.http.Get(ctx, lyricURL, c.header())
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, fmt.Errorf("netease song %s: %w", nid, provider.ErrNotFound)
		}
		return nil, fmt.Errorf("netease lyric request failed: %w", err)
	}

	var resp LyricResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode netease lyric response: %w", err)
	}
	if resp.Code == http.StatusNotFound {
		return nil, fmt.Errorf("netease song %s: %w", nid, provider.ErrNotFound)
	}
	if resp.Code != 0 && resp.Code != http.StatusOK {
		return nil, fmt.Errorf("netease lyric api returned code %d", resp.Code)
	}

	return &lyrics.Bundle{
		Provider: provider.Netease,
		Raw:      body,
		Fields:   resp.Fields(),
	}, nil
}

// Fields 拆出存在的歌词字段。klyric 只在 qfy 标记逐字歌词时采用，
// 否则接口返回的空 klyric 会挡住后面的 lrc
func (r *LyricResponse) Fields() lyrics.Fields {
	fields := lyrics.Fields{}
	add := func(f lyrics.Field, format lyrics.Format, b *lyricBlock) {
		if b != nil && b.Lyric != nil {
			fields[f] = lyrics.Payload{Format: format, Data: *b.Lyric}
		}
	}
	add(lyrics.FieldYrc, lyrics.Yrc, r.Yrc)
	if r.Qfy {
		add(lyrics.FieldKlyric, lyrics.Krc, r.Klyric)
	}
	add(lyrics.FieldLrc, lyrics.Lrc, r.Lrc)
	add(lyrics.FieldTranslation, lyrics.Lrc, r.Tlyric)
	return fields
}
