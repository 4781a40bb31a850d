package search

import "strconv"

// Project 把原始条目映射为 Result，只做字段搬运，不评分。缺失字段保持零值
func Project(hit Hit) Result {
	switch h := hit.(type) {
	case NeteaseSong:
		r := Result{
			Provider:   h.Provider(),
			Title:      h.Name,
			Artists:    make([]string, 0, len(h.Artists)),
			Album:      h.Album.Name,
			DurationMs: h.Duration,
			ID:         NumericID(h.ID),
		}
		for _, a := range h.Artists {
			r.Artists = append(r.Artists, a.Name)
		}
		if h.Album.Artist != nil && h.Album.Artist.Name != "" {
			r.AlbumArtists = []string{h.Album.Artist.Name}
		}
		return r
	case QQMusicSong:
		r := Result{
			Provider:   h.Provider(),
			Title:      h.SongName,
			Artists:    make([]string, 0, len(h.Singer)),
			Album:      h.AlbumName,
			DurationMs: h.Interval * 1000,
			ID:         KeyedID{Key: h.SongMid},
		}
		if h.SongID != 0 {
			r.ID = KeyedID{ID: strconv.FormatInt(h.SongID, 10), Key: h.SongMid}
		}
		for _, s := range h.Singer {
			r.Artists = append(r.Artists, s.Name)
		}
		return r
	case KugouSong:
		return Result{
			Provider:   h.Provider(),
			Title:      h.SongName,
			Artists:    splitArtists(h.SingerName),
			Album:      h.AlbumName,
			DurationMs: h.Duration * 1000,
			ID:         HashID(h.Hash),
		}
	case MusixmatchTrack:
		return Result{
			Provider:   h.Provider(),
			Title:      h.TrackName,
			Artists:    splitArtists(h.ArtistName),
			Album:      h.AlbumName,
			DurationMs: h.TrackLength * 1000,
			ID:         NumericID(h.TrackID),
		}
	case SodaMusicTrack:
		r := Result{
			Provider:   h.Provider(),
			Title:      h.Name,
			Artists:    make([]string, 0, len(h.Artists)),
			Album:      h.Album.Name,
			DurationMs: h.Duration,
			ID:         StringID(h.ID),
		}
		for _, a := range h.Artists {
			r.Artists = append(r.Artists, a.Name)
		}
		if len(h.Album.Artists) > 0 {
			r.AlbumArtists = make([]string, 0, len(h.Album.Artists))
			for _, a := range h.Album.Artists {
				r.AlbumArtists = append(r.AlbumArtists, a.Name)
			}
		}
		return r
	default:
		return Result{}
	}
}

// ProjectAll 依次映射所有条目
func ProjectAll(hits []Hit) []Result {
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Project(h))
	}
	return results
}
