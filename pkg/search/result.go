package search

import (
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"
)

// Result 归一化后的搜索结果
type Result struct {
	Provider     provider.Provider
	Title        string
	Artists      []string
	Album        string
	AlbumArtists []string // nil 表示提供商未给出
	DurationMs   int64    // 0 表示未知
	ID           ID
	Match        *match.Type // 评分前为 nil
}

// Track 转换为评分用的候选曲目
func (r Result) Track() match.Track {
	return match.Track{
		Title:      r.Title,
		Artists:    r.Artists,
		Album:      r.Album,
		DurationMs: r.DurationMs,
	}
}
