package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultProviderTimeout = 8 * time.Second

	// FindLyrics 最多尝试的候选数
	maxLyricsCandidates = 3
)

// ErrProviderUnavailable 提供商未配置或创建失败
var ErrProviderUnavailable = errors.New("provider not available")

// Manager 音乐API管理器：并发搜索、缓存、歌词解析与回退
type Manager struct {
	clients map[provider.Provider]Client
	order   []provider.Provider

	cache     Cache
	searchTTL time.Duration
	lyricsTTL time.Duration

	timeout  time.Duration
	resolver *lyrics.Resolver
	matcher  match.Matcher
	logger   zerolog.Logger
}

// ManagerOption 管理器选项
type ManagerOption func(*Manager)

// WithCache 启用缓存，ttl <= 0 表示永久有效
func WithCache(c Cache, searchTTL, lyricsTTL time.Duration) ManagerOption {
	return func(m *Manager) {
		m.cache = c
		m.searchTTL = searchTTL
		m.lyricsTTL = lyricsTTL
	}
}

// WithProviderTimeout 单个提供商在 SearchAll 中的超时
func WithProviderTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithResolver(r *lyrics.Resolver) ManagerOption {
	return func(m *Manager) { m.resolver = r }
}

func WithMatcher(mt match.Matcher) ManagerOption {
	return func(m *Manager) { m.matcher = mt }
}

// NewManager 创建新的音乐API管理器，clients 的顺序即合并结果时的提供商顺序
func NewManager(clients []Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		clients:  make(map[provider.Provider]Client, len(clients)),
		timeout:  DefaultProviderTimeout,
		resolver: lyrics.NewResolver(nil),
		matcher:  match.DefaultMatcher(),
		logger:   log.With().Str("component", "music-manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range clients {
		p := c.Provider()
		if _, dup := m.clients[p]; dup {
			m.logger.Warn().Str("provider", p.String()).Msg("Duplicate provider ignored")
			continue
		}
		m.clients[p] = c
		m.order = append(m.order, p)
	}

	if len(m.order) == 0 {
		m.logger.Warn().Msg("No music providers configured")
	} else {
		m.logger.Info().
			Int("provider_count", len(m.order)).
			Strs("providers", m.ProviderNames()).
			Bool("cache", m.cache != nil).
			Msg("Music API Manager initialized")
	}
	return m
}

// Providers 返回已配置的提供商
func (m *Manager) Providers() []provider.Provider {
	return append([]provider.Provider(nil), m.order...)
}

// ProviderNames 获取所有提供商名称
func (m *Manager) ProviderNames() []string {
	names := make([]string, len(m.order))
	for i, p := range m.order {
		names[i] = p.String()
	}
	return names
}

func (m *Manager) client(p provider.Provider) (Client, error) {
	c, ok := m.clients[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, p)
	}
	return c, nil
}

// Search 在单个提供商中搜索，结果已评分排序
func (m *Manager) Search(ctx context.Context, p provider.Provider, q match.Query) ([]search.Result, error) {
	c, err := m.client(p)
	if err != nil {
		return nil, err
	}

	key := searchKey(p, q)
	if body, ok := m.cacheGet(ctx, key); ok {
		if hits, err := search.Decode(p, body); err == nil {
			m.logger.Debug().Str("provider", p.String()).Msg("Search cache hit")
			return search.Rank(q, search.ProjectAll(hits), m.matcher), nil
		}
	}

	body, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	hits, err := search.Decode(p, body)
	if err != nil {
		return nil, err
	}
	m.cacheSet(ctx, key, body, m.searchTTL)

	m.logger.Debug().
		Str("provider", p.String()).
		Str("keywords", q.Keywords()).
		Int("hits", len(hits)).
		Msg("Search completed")
	return search.Rank(q, search.ProjectAll(hits), m.matcher), nil
}

// SearchAll 并发搜索所有提供商并合并排序。单个提供商失败或超时只记录日志，
// 全部失败时返回最后一个错误
func (m *Manager) SearchAll(ctx context.Context, q match.Query) ([]search.Result, error) {
	if len(m.order) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}

	perProvider := make([][]search.Result, len(m.order))
	errs := make([]error, len(m.order))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range m.order {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, m.timeout)
			defer cancel()

			results, err := m.Search(pctx, p, q)
			if err != nil {
				m.logger.Warn().
					Str("provider", p.String()).
					Err(err).
					Msg("Provider failed")
				errs[i] = err
				return nil
			}
			perProvider[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var merged []search.Result
	var lastErr error
	failed := 0
	for i := range m.order {
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
			continue
		}
		merged = append(merged, perProvider[i]...)
	}
	if failed == len(m.order) {
		return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
	}

	return search.Rank(q, merged, m.matcher), nil
}

// Lyrics 获取原始歌词
func (m *Manager) Lyrics(ctx context.Context, p provider.Provider, id search.ID) (*lyrics.Bundle, error) {
	c, err := m.client(p)
	if err != nil {
		return nil, err
	}

	key := "lyrics:" + p.String() + ":" + id.String()
	if data, ok := m.cacheGet(ctx, key); ok {
		var bundle lyrics.Bundle
		if err := json.Unmarshal(data, &bundle); err == nil {
			m.logger.Debug().Str("provider", p.String()).Str("song_id", id.String()).Msg("Lyrics cache hit")
			return &bundle, nil
		}
	}

	bundle, err := c.Lyrics(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(bundle); err == nil {
		m.cacheSet(ctx, key, data, m.lyricsTTL)
	} else {
		m.logger.Warn().Err(err).Msg("Failed to encode lyrics for cache")
	}
	return bundle, nil
}

// GetLyrics 获取歌词，parse 为 true 时按回退顺序解析。
// 解析失败不是错误：Document 为空，ParseErr 记录原因，调用方返回原始内容
func (m *Manager) GetLyrics(ctx context.Context, p provider.Provider, id search.ID, parse bool) (*LyricsResult, error) {
	bundle, err := m.Lyrics(ctx, p, id)
	if err != nil {
		return nil, err
	}

	res := &LyricsResult{Bundle: bundle}
	if !parse {
		return res, nil
	}

	doc, field, err := m.resolver.ResolveField(p, bundle.Fields)
	if err != nil {
		m.logger.Warn().
			Str("provider", p.String()).
			Str("song_id", id.String()).
			Err(err).
			Msg("Lyrics parse failed, returning raw payload")
		res.ParseErr = err
		return res, nil
	}
	res.Document = doc
	res.Field = field
	return res, nil
}

// FindLyrics 搜索所有提供商，按排序依次尝试匹配的候选，直到取得歌词
func (m *Manager) FindLyrics(ctx context.Context, q match.Query, parse bool) (*LyricsResult, *search.Result, error) {
	results, err := m.SearchAll(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	tried := 0
	for i := range results {
		r := &results[i]
		if r.Match == nil || *r.Match == match.None {
			break
		}
		if tried == maxLyricsCandidates {
			break
		}
		tried++

		m.logger.Info().
			Str("provider", r.Provider.String()).
			Str("title", r.Title).
			Stringer("match", r.Match).
			Int("attempt", tried).
			Msg("Trying to get lyrics")

		res, err := m.GetLyrics(ctx, r.Provider, r.ID, parse)
		if err != nil {
			m.logger.Warn().
				Str("provider", r.Provider.String()).
				Str("song_id", r.ID.String()).
				Err(err).
				Msg("Provider get lyrics failed")
			lastErr = err
			continue
		}
		return res, r, nil
	}

	if lastErr != nil {
		return nil, nil, fmt.Errorf("all candidates failed for '%s', last error: %w", q.Keywords(), lastErr)
	}
	return nil, nil, fmt.Errorf("no matching song for '%s': %w", q.Keywords(), provider.ErrNotFound)
}

// Close 释放缓存连接
func (m *Manager) Close() error {
	if m.cache == nil {
		return nil
	}
	return m.cache.Close()
}

func (m *Manager) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if m.cache == nil {
		return nil, false
	}
	data, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		m.logger.Warn().Str("key", key).Err(err).Msg("Cache read failed")
		return nil, false
	}
	return data, ok
}

func (m *Manager) cacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Set(ctx, key, value, ttl); err != nil {
		m.logger.Warn().Str("key", key).Err(err).Msg("Cache write failed")
	}
}

// searchKey 由查询内容派生稳定的缓存键
func searchKey(p provider.Provider, q match.Query) string {
	name := match.Normalize(q.Keywords()) + "\x00" + match.Normalize(q.Album)
	return "search:" + p.String() + ":" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
