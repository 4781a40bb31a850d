package music

import (
	"context"
	"time"

	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"
)

// Client 音乐提供商客户端通用接口
type Client interface {
	// Provider 返回提供商标签
	Provider() provider.Provider

	// Search 搜索歌曲，返回提供商的原始响应体
	Search(ctx context.Context, q match.Query) ([]byte, error)

	// Lyrics 根据歌曲ID获取原始歌词
	Lyrics(ctx context.Context, id search.ID) (*lyrics.Bundle, error)
}

// Cache 搜索响应和歌词的缓存后端，由 pkg/redis 和 pkg/musiccache 实现
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LyricsResult 一次歌词请求的结果。Document 只在请求解析且解析成功时非空
type LyricsResult struct {
	Bundle   *lyrics.Bundle
	Document *lyrics.Document
	Field    lyrics.Field
	ParseErr error
}
