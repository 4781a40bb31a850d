package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"lyrics-api/pkg/provider"
)

// Hit 各提供商搜索响应中的单条原始结果
type Hit interface {
	Provider() provider.Provider
	isHit()
}

type neteaseArtist struct {
	Name string `json:"name"`
}

// NeteaseSong 网易云 /api/search/get/web 的歌曲条目
type NeteaseSong struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Artists []neteaseArtist `json:"artists"`
	Album   struct {
		Name   string         `json:"name"`
		Artist *neteaseArtist `json:"artist"`
	} `json:"album"`
	Duration int64 `json:"duration"` // ms
}

// QQMusicSong QQ 音乐 client_search_cp 的歌曲条目
type QQMusicSong struct {
	SongID   int64  `json:"songid"`
	SongMid  string `json:"songmid"`
	SongName string `json:"songname"`
	Singer   []struct {
		Name string `json:"name"`
	} `json:"singer"`
	AlbumName string `json:"albumname"`
	Interval  int64  `json:"interval"` // 秒
}

// KugouSong 酷狗 v3 搜索条目，歌手以顿号分隔
type KugouSong struct {
	Hash       string `json:"hash"`
	SongName   string `json:"songname"`
	SingerName string `json:"singername"`
	AlbumName  string `json:"album_name"`
	Duration   int64  `json:"duration"` // 秒
}

// MusixmatchTrack track.search 返回的 track 对象
type MusixmatchTrack struct {
	TrackID     int64  `json:"track_id"`
	TrackName   string `json:"track_name"`
	ArtistName  string `json:"artist_name"`
	AlbumName   string `json:"album_name"`
	TrackLength int64  `json:"track_length"` // 秒
}

type sodaArtist struct {
	Name string `json:"name"`
}

// SodaMusicTrack 汽水音乐搜索结果中的 track 实体
type SodaMusicTrack struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Duration int64        `json:"duration"` // ms
	Artists  []sodaArtist `json:"artists"`
	Album    struct {
		Name    string       `json:"name"`
		Artists []sodaArtist `json:"artists"`
	} `json:"album"`
}

func (NeteaseSong) Provider() provider.Provider     { return provider.Netease }
func (QQMusicSong) Provider() provider.Provider     { return provider.QQMusic }
func (KugouSong) Provider() provider.Provider       { return provider.Kugou }
func (MusixmatchTrack) Provider() provider.Provider { return provider.Musixmatch }
func (SodaMusicTrack) Provider() provider.Provider  { return provider.SodaMusic }

func (NeteaseSong) isHit()     {}
func (QQMusicSong) isHit()     {}
func (KugouSong) isHit()       {}
func (MusixmatchTrack) isHit() {}
func (SodaMusicTrack) isHit()  {}

type neteaseEnvelope struct {
	Code   int `json:"code"`
	Result struct {
		Songs []NeteaseSong `json:"songs"`
	} `json:"result"`
}

type qqEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Song struct {
			List []QQMusicSong `json:"list"`
		} `json:"song"`
	} `json:"data"`
}

type kugouEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Info []KugouSong `json:"info"`
	} `json:"data"`
}

type musixmatchEnvelope struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		Body json.RawMessage `json:"body"`
	} `json:"message"`
}

type musixmatchBody struct {
	TrackList []struct {
		Track MusixmatchTrack `json:"track"`
	} `json:"track_list"`
}

type sodaEnvelope struct {
	ResultGroups []struct {
		Data []struct {
			Entity struct {
				Track *SodaMusicTrack `json:"track"`
			} `json:"entity"`
		} `json:"data"`
	} `json:"result_groups"`
}

// Decode 解析提供商搜索接口的响应体
func Decode(p provider.Provider, body []byte) ([]Hit, error) {
	switch p {
	case provider.Netease:
		var env neteaseEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode netease search response: %w", err)
		}
		return collect(env.Result.Songs), nil
	case provider.QQMusic:
		var env qqEnvelope
		if err := json.Unmarshal(TrimJSONP(body), &env); err != nil {
			return nil, fmt.Errorf("failed to decode qq search response: %w", err)
		}
		return collect(env.Data.Song.List), nil
	case provider.Kugou:
		var env kugouEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode kugou search response: %w", err)
		}
		return collect(env.Data.Info), nil
	case provider.Musixmatch:
		var env musixmatchEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode musixmatch search response: %w", err)
		}
		// 无结果时 body 是空数组而不是对象
		var mb musixmatchBody
		if len(env.Message.Body) > 0 && env.Message.Body[0] == '{' {
			if err := json.Unmarshal(env.Message.Body, &mb); err != nil {
				return nil, fmt.Errorf("failed to decode musixmatch search body: %w", err)
			}
		}
		hits := make([]Hit, 0, len(mb.TrackList))
		for _, t := range mb.TrackList {
			hits = append(hits, t.Track)
		}
		return hits, nil
	case provider.SodaMusic:
		var env sodaEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode sodamusic search response: %w", err)
		}
		var hits []Hit
		for _, g := range env.ResultGroups {
			for _, d := range g.Data {
				if d.Entity.Track != nil {
					hits = append(hits, *d.Entity.Track)
				}
			}
		}
		return hits, nil
	default:
		return nil, fmt.Errorf("no search decoder for provider %q", p)
	}
}

func collect[T Hit](items []T) []Hit {
	hits := make([]Hit, 0, len(items))
	for _, item := range items {
		hits = append(hits, item)
	}
	return hits
}

// TrimJSONP 去掉 callback(...) 包装，普通 JSON 原样返回
func TrimJSONP(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] == '{' || body[0] == '[' {
		return body
	}
	open := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if open < 0 || end <= open {
		return body
	}
	return body[open+1 : end]
}

func splitArtists(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '、' || r == '/' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
