package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lyrics-api/pkg/match"
	"lyrics-api/pkg/music"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleProviders GET /api/providers
func (s *Server) handleProviders(c *gin.Context) {
	type providerInfo struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	configured := s.svc.Providers()
	list := make([]providerInfo, len(configured))
	for i, p := range configured {
		list[i] = providerInfo{Name: p.String(), DisplayName: p.DisplayName()}
	}
	c.JSON(http.StatusOK, gin.H{
		"providers": list,
		"supported": provider.Names(),
	})
}

// handleSearch GET /api/search/:provider
func (s *Server) handleSearch(c *gin.Context) {
	p, ok := s.providerParam(c)
	if !ok {
		return
	}
	q, err := queryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.svc.Search(c.Request.Context(), p, q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResultDTOs(results))
}

// handleSearchAll GET /api/search
func (s *Server) handleSearchAll(c *gin.Context) {
	q, err := queryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.svc.SearchAll(c.Request.Context(), q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResultDTOs(results))
}

// handleLyrics GET /api/lyrics/:provider/:id?parse=bool
func (s *Server) handleLyrics(c *gin.Context) {
	p, ok := s.providerParam(c)
	if !ok {
		return
	}
	id, err := search.ParseID(p, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	parse, err := parseFlag(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.svc.GetLyrics(c.Request.Context(), p, id, parse)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLyricsDTO(id, res))
}

// handleFindLyrics GET /api/lyrics?title=&artist=&parse=bool
// 搜索全部提供商，返回第一个能取到歌词的匹配结果
func (s *Server) handleFindLyrics(c *gin.Context) {
	q, err := queryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parse, err := parseFlag(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, picked, err := s.svc.FindLyrics(c.Request.Context(), q, parse)
	if err != nil {
		s.writeError(c, err)
		return
	}
	dto := newLyricsDTO(picked.ID, res)
	song := newResultDTO(*picked)
	dto.Song = &song
	c.JSON(http.StatusOK, dto)
}

// providerParam 解析路径中的提供商名称，未知名称直接返回 400
func (s *Server) providerParam(c *gin.Context) (provider.Provider, bool) {
	p, err := provider.ByName(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid provider",
			"supported": provider.Names(),
		})
		return "", false
	}
	return p, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	body := gin.H{"error": err.Error()}

	switch {
	case errors.Is(err, music.ErrProviderUnavailable):
		status = http.StatusBadRequest
		names := make([]string, 0)
		for _, p := range s.svc.Providers() {
			names = append(names, p.String())
		}
		body["supported"] = names
	case errors.Is(err, search.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, provider.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().
			Str("request_id", c.GetString(requestIDKey)).
			Err(err).
			Msg("Request failed")
	}
	c.JSON(status, body)
}

func queryParams(c *gin.Context) (match.Query, error) {
	q := match.Query{
		Title: strings.TrimSpace(c.Query("title")),
		Album: strings.TrimSpace(c.Query("album")),
	}
	if q.Title == "" {
		return q, errors.New("title is required")
	}
	for _, a := range c.QueryArray("artist") {
		if a = strings.TrimSpace(a); a != "" {
			q.Artists = append(q.Artists, a)
		}
	}
	if d := c.Query("duration"); d != "" {
		ms, err := strconv.ParseInt(d, 10, 64)
		if err != nil || ms < 0 {
			return q, fmt.Errorf("invalid duration %q, expected milliseconds", d)
		}
		q.DurationMs = ms
	}
	return q, nil
}

func parseFlag(c *gin.Context) (bool, error) {
	v := c.DefaultQuery("parse", "false")
	parse, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid parse flag %q", v)
	}
	return parse, nil
}
