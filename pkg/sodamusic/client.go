package sodamusic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://api.qishui.com"

// Detail track_v2 响应中用到的部分
type Detail struct {
	Track *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"track"`
	Lyric *struct {
		Content string `json:"content"`
		// Type 歌词格式名，如 krc、lrc
		Type    string `json:"type"`
	} `json:"lyric"`
}

// Client 汽水音乐客户端
type Client struct {
	http    *httpclient.Client
	baseURL string
	logger  zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// NewClient 创建新的汽水音乐客户端
func NewClient(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
		logger:  log.With().Str("component", "sodamusic").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(httpclient.WithComponent("sodamusic-http"))
	}
	return c
}

func (c *Client) Provider() provider.Provider { return provider.SodaMusic }

func commonParams() url.Values {
	params := url.Values{}
	params.Set("aid", "386088")
	params.Set("app_name", "luna_pc")
	params.Set("device_platform", "web")
	params.Set("channel", "pc_web")
	return params
}

// Search 搜索歌曲
func (c *Client) Search(ctx context.Context, q match.Query) ([]byte, error) {
	params := commonParams()
	params.Set("q", q.Keywords())
	params.Set("cursor", "0")
	params.Set("search_method", "input")
	searchURL := c.baseURL + "/luna/pc/search/track?" + params.Encode()

	c.logger.Debug().Str("url", searchURL).Msg("Searching for track")
	body, err := c.http.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sodamusic search failed: %w", err)
	}
	return body, nil
}

// Lyrics 获取曲目详情，lyric.type 决定解析格式
func (c *Client) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	sid, ok := id.(search.StringID)
	if !ok {
		return nil, fmt.Errorf("%w: sodamusic expects a string id, got %T", search.ErrInvalidID, id)
	}

	params := commonParams()
	params.Set("track_id", string(sid))
	params.Set("media_type", "track")
	detailURL := c.baseURL + "/luna/pc/track_v2?" + params.Encode()

	c.logger.Debug().Str("url", detailURL).Msg("Fetching track detail")
	body, err := c.http.Get(ctx, detailURL, nil)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, fmt.Errorf("sodamusic track %s: %w", sid, provider.ErrNotFound)
		}
		return nil, fmt.Errorf("sodamusic detail request failed: %w", err)
	}

	var detail Detail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode sodamusic detail: %w", err)
	}
	if detail.Track == nil && detail.Lyric == nil {
		return nil, fmt.Errorf("sodamusic track %s: %w", sid, provider.ErrNotFound)
	}

	fields := lyrics.Fields{}
	if detail.Lyric != nil {
		// 未知类型保留为 Unknown，由解析阶段报告
		format, _ := lyrics.ParseFormat(detail.Lyric.Type)
		fields[lyrics.FieldLyric] = lyrics.Payload{Format: format, Data: detail.Lyric.Content}
	}

	return &lyrics.Bundle{
		Provider: provider.SodaMusic,
		Raw:      body,
		Fields:   fields,
	}, nil
}
