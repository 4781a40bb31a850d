package server

import (
	"encoding/json"

	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/music"
	"lyrics-api/pkg/search"
)

// ResultDTO 搜索结果的响应格式。QQ 音乐的 songmid 单独放在 Mid
type ResultDTO struct {
	Provider     string      `json:"provider"`
	Title        string      `json:"title"`
	Artists      []string    `json:"artists"`
	Album        string      `json:"album"`
	AlbumArtists []string    `json:"album_artists,omitempty"`
	DurationMs   int64       `json:"duration_ms,omitempty"`
	ID           string      `json:"id"`
	Mid          string      `json:"mid,omitempty"`
	Match        *match.Type `json:"match,omitempty"`
}

// LyricsDTO 歌词响应。解析成功时只返回 Lyrics，否则返回提供商原始响应
type LyricsDTO struct {
	Provider   string           `json:"provider"`
	ID         string           `json:"id"`
	Parsed     bool             `json:"parsed"`
	Field      lyrics.Field     `json:"field,omitempty"`
	Lyrics     *lyrics.Document `json:"lyrics,omitempty"`
	Raw        json.RawMessage  `json:"raw,omitempty"`
	ParseError string           `json:"parse_error,omitempty"`
	Song       *ResultDTO       `json:"song,omitempty"`
}

func newResultDTO(r search.Result) ResultDTO {
	id, mid := idParts(r.ID)
	artists := r.Artists
	if artists == nil {
		artists = []string{}
	}
	return ResultDTO{
		Provider:     r.Provider.String(),
		Title:        r.Title,
		Artists:      artists,
		Album:        r.Album,
		AlbumArtists: r.AlbumArtists,
		DurationMs:   r.DurationMs,
		ID:           id,
		Mid:          mid,
		Match:        r.Match,
	}
}

func newResultDTOs(results []search.Result) []ResultDTO {
	out := make([]ResultDTO, len(results))
	for i, r := range results {
		out[i] = newResultDTO(r)
	}
	return out
}

func newLyricsDTO(id search.ID, res *music.LyricsResult) LyricsDTO {
	dto := LyricsDTO{
		Provider: res.Bundle.Provider.String(),
		ID:       id.String(),
	}
	if res.Document != nil {
		dto.Parsed = true
		dto.Field = res.Field
		dto.Lyrics = res.Document
		return dto
	}
	dto.Raw = res.Bundle.Raw
	if res.ParseErr != nil {
		dto.ParseError = res.ParseErr.Error()
	}
	return dto
}

// idParts 拆出主 ID 和二级键
func idParts(id search.ID) (string, string) {
	switch v := id.(type) {
	case search.NumericID:
		return v.String(), ""
	case search.StringID:
		return v.String(), ""
	case search.HashID:
		return v.String(), ""
	case search.KeyedID:
		return v.ID, v.Key
	default:
		return "", ""
	}
}
