package qqmusic

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://c.y.qq.com"

// LyricResponse QQ音乐 fcg_query_lyric_new 响应（nobase64=1）。
// Qrc 只在上游已解密时出现
type LyricResponse struct {
	RetCode int     `json:"retcode"`
	Code    int     `json:"code"`
	Lyric   *string `json:"lyric"`
	Trans   string  `json:"trans"`
	Qrc     *string `json:"qrc"`
}

// Client QQ音乐客户端
type Client struct {
	http    *httpclient.Client
	baseURL string
	cookie  string
	logger  zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithCookie(cookie string) Option { return func(c *Client) { c.cookie = cookie } }

// NewClient 创建新的QQ音乐客户端
func NewClient(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
		logger:  log.With().Str("component", "qqmusic").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(httpclient.WithComponent("qqmusic-http"))
	}
	return c
}

func (c *Client) Provider() provider.Provider { return provider.QQMusic }

func (c *Client) header() http.Header {
	h := http.Header{}
	// 歌词接口校验 Referer
	h.Set("Referer", "https://y.qq.com/")
	if c.cookie != "" {
		h.Set("Cookie", c.cookie)
	}
	return h
}

// Search 搜索歌曲
func (c *Client) Search(ctx context.Context, q match.Query) ([]byte, error) {
	params := url.Values{}
	params.Set("w", q.Keywords())
	params.Set("format", "json")
	params.Set("p", "1")
	params.Set("n", "20")
	params.Set("cr", "1")
	searchURL := c.baseURL + "/soso/fcgi-bin/client_search_cp?" + params.Encode()

	c.logger.Debug().Str("url", searchURL).Msg("Searching for song")
	body, err := c.http.Get(ctx, searchURL, c.header())
	if err != nil {
		return nil, fmt.Errorf("qq music search failed: %w", err)
	}
	return search.TrimJSONP(body), nil
}

// Lyrics 获取歌词。优先用 songmid 查询，没有时用 songid
func (c *Client) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	kid, ok := id.(search.KeyedID)
	if !ok {
		return nil, fmt.Errorf("%w: qq music expects a keyed id, got %T", search.ErrInvalidID, id)
	}

	params := url.Values{}
	if kid.Key != "" {
		params.Set("songmid", kid.Key)
	} else {
		params.Set("musicid", kid.ID)
	}
	params.Set("format", "json")
	params.Set("nobase64", "1")
	params.Set("g_tk", "5381")
	lyricURL := c.baseURL + "/lyric/fcgi-bin/fcg_query_lyric_new.fcg?" + params.Encode()

	c.logger.Debug().Str("url", lyricURL).Msg("Fetching lyrics")
	body, err := c.http.Get(ctx, lyricURL, c.header())
	if err != nil {
		return nil, fmt.Errorf("qq music lyric request failed: %w", err)
	}
	body = search.TrimJSONP(body)

	var resp LyricResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode qq music lyric response: %w", err)
	}
	// -1901 歌曲不存在
	if resp.RetCode == -1901 || resp.Code == -1901 {
		return nil, fmt.Errorf("qq music song %s: %w", kid, provider.ErrNotFound)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("qq music lyric api returned retcode %d", resp.RetCode)
	}

	return &lyrics.Bundle{
		Provider: provider.QQMusic,
		Raw:      body,
		Fields:   resp.Fields(),
	}, nil
}

// Fields 拆出存在的歌词字段，文本中的 HTML 实体会被还原
func (r *LyricResponse) Fields() lyrics.Fields {
	fields := lyrics.Fields{}
	if r.Qrc != nil {
		fields[lyrics.FieldQrc] = lyrics.Payload{Format: lyrics.Qrc, Data: *r.Qrc}
	}
	if r.Lyric != nil {
		fields[lyrics.FieldLrc] = lyrics.Payload{Format: lyrics.Lrc, Data: html.UnescapeString(*r.Lyric)}
	}
	if r.Trans != "" {
		fields[lyrics.FieldTranslation] = lyrics.Payload{Format: lyrics.Lrc, Data: html.UnescapeString(r.Trans)}
	}
	return fields
}
