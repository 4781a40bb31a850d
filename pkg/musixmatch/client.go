package musixmatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

const (
	DefaultBaseURL = "https://apic-desktop.musixmatch.com/ws/1.1"
	DefaultAppID   = "web-desktop-app-v1.0"
)

// ErrNoToken 未配置 usertoken
var ErrNoToken = errors.New("musixmatch usertoken is not configured")

// envelope Musixmatch 所有接口共用的外层结构，业务状态码在 header 中
type envelope struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		Body json.RawMessage `json:"body"`
	} `json:"message"`
}

type richsyncBody struct {
	Richsync struct {
		Body string `json:"richsync_body"`
	} `json:"richsync"`
}

type subtitleBody struct {
	Subtitle struct {
		Body string `json:"subtitle_body"`
	} `json:"subtitle"`
}

// Client Musixmatch 客户端
type Client struct {
	http      *httpclient.Client
	baseURL   string
	appID     string
	userToken string
	logger    zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithUserToken(token string) Option { return func(c *Client) { c.userToken = token } }

// NewClient 创建新的 Musixmatch 客户端
func NewClient(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
		appID:   DefaultAppID,
		logger:  log.With().Str("component", "musixmatch").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(httpclient.WithComponent("musixmatch-http"))
	}
	return c
}

func (c *Client) Provider() provider.Provider { return provider.Musixmatch }

func (c *Client) call(ctx context.Context, method string, params url.Values) ([]byte, json.RawMessage, error) {
	if c.userToken == "" {
		return nil, nil, ErrNoToken
	}
	params.Set("format", "json")
	params.Set("app_id", c.appID)
	params.Set("usertoken", c.userToken)

	body, err := c.http.Get(ctx, c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("musixmatch %s failed: %w", method, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, fmt.Errorf("failed to decode musixmatch %s response: %w", method, err)
	}
	switch code := env.Message.Header.StatusCode; code {
	case 200:
		return body, env.Message.Body, nil
	case 404:
		return body, nil, provider.ErrNotFound
	default:
		return body, nil, fmt.Errorf("musixmatch %s returned status %d", method, code)
	}
}

// Search 搜索歌曲
func (c *Client) Search(ctx context.Context, q match.Query) ([]byte, error) {
	params := url.Values{}
	params.Set("q_track", q.Title)
	if len(q.Artists) > 0 {
		params.Set("q_artist", q.Artists[0])
	}
	if q.Album != "" {
		params.Set("q_album", q.Album)
	}
	params.Set("page_size", "20")
	params.Set("s_track_rating", "desc")

	c.logger.Debug().Str("title", q.Title).Msg("Searching for track")
	body, _, err := c.call(ctx, "track.search", params)
	if err != nil && !errors.Is(err, provider.ErrNotFound) {
		return nil, err
	}
	return body, nil
}

// Lyrics 依次获取逐字 richsync 和逐行 subtitle，两者都没有时返回 ErrNotFound
func (c *Client) Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error) {
	tid, ok := id.(search.NumericID)
	if !ok {
		return nil, fmt.Errorf("%w: musixmatch expects a numeric id, got %T", search.ErrInvalidID, id)
	}
	trackID := strconv.FormatInt(int64(tid), 10)

	raw := map[string]json.RawMessage{}
	fields := lyrics.Fields{}

	richRaw, richBody, err := c.call(ctx, "track.richsync.get", url.Values{"track_id": {trackID}})
	switch {
	case err == nil:
		var rb richsyncBody
		if err := json.Unmarshal(richBody, &rb); err != nil {
			return nil, fmt.Errorf("failed to decode musixmatch richsync body: %w", err)
		}
		raw["richsync"] = richRaw
		fields[lyrics.FieldRichsync] = lyrics.Payload{Format: lyrics.Musixmatch, Data: rb.Richsync.Body}
	case errors.Is(err, provider.ErrNotFound):
		c.logger.Debug().Str("track_id", trackID).Msg("No richsync available")
	default:
		return nil, err
	}

	subRaw, subBody, err := c.call(ctx, "track.subtitle.get", url.Values{"track_id": {trackID}, "subtitle_format": {"lrc"}})
	switch {
	case err == nil:
		var sb subtitleBody
		if err := json.Unmarshal(subBody, &sb); err != nil {
			return nil, fmt.Errorf("failed to decode musixmatch subtitle body: %w", err)
		}
		raw["subtitle"] = subRaw
		fields[lyrics.FieldSubtitle] = lyrics.Payload{Format: lyrics.Lrc, Data: sb.Subtitle.Body}
	case errors.Is(err, provider.ErrNotFound):
	default:
		return nil, err
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("musixmatch track %s: %w", trackID, provider.ErrNotFound)
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode musixmatch raw payload: %w", err)
	}
	return &lyrics.Bundle{
		Provider: provider.Musixmatch,
		Raw:      rawJSON,
		Fields:   fields,
	}, nil
}
