package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lyrics-api/pkg/match"
	"lyrics-api/pkg/music"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/search"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Service HTTP 层依赖的歌词服务，由 music.Manager 实现
type Service interface {
	Providers() []provider.Provider
	Search(ctx context.Context, p provider.Provider, q match.Query) ([]search.Result, error)
	SearchAll(ctx context.Context, q match.Query) ([]search.Result, error)
	GetLyrics(ctx context.Context, p provider.Provider, id search.ID, parse bool) (*music.LyricsResult, error)
	FindLyrics(ctx context.Context, q match.Query, parse bool) (*music.LyricsResult, *search.Result, error)
}

// Options HTTP 服务选项
type Options struct {
	Addr            string
	Mode            string // gin 模式：debug、release、test
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server 歌词 HTTP 服务
type Server struct {
	svc             Service
	engine          *gin.Engine
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// New 创建服务并注册路由
func New(svc Service, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		svc:             svc,
		engine:          gin.New(),
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          log.With().Str("component", "http").Logger(),
	}
	s.engine.Use(requestID(), s.accessLog(), s.recovery(), cors())
	s.routes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/providers", s.handleProviders)
	api.GET("/search", s.handleSearchAll)
	api.GET("/search/:provider", s.handleSearch)
	api.GET("/lyrics", s.handleFindLyrics)
	api.GET("/lyrics/:provider/:id", s.handleLyrics)
}

// Handler 返回路由处理器，测试中直接使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
