package app

import (
	"context"
	"os"
	"time"

	"lyrics-api/internal/config"
	"lyrics-api/internal/server"
	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/music"
	"lyrics-api/pkg/musiccache"
	"lyrics-api/pkg/redis"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	cfg     *config.Config
	manager *music.Manager
	server  *server.Server
}

// SetupLogging 设置 zerolog 的全局配置
func SetupLogging(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// New 按配置组装缓存、提供商客户端、管理器和 HTTP 服务
func New(cfg *config.Config) (*App, error) {
	manager, err := NewManager(cfg)
	if err != nil {
		return nil, err
	}

	srv := server.New(manager, server.Options{
		Addr:            cfg.Server.Addr,
		Mode:            cfg.Server.Mode,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	return &App{
		cfg:     cfg,
		manager: manager,
		server:  srv,
	}, nil
}

// NewManager 只创建歌词管理器，命令行工具也使用
func NewManager(cfg *config.Config) (*music.Manager, error) {
	hc := httpclient.New(
		httpclient.WithMaxRetries(cfg.Providers.MaxRetries),
		httpclient.WithRequestTimeout(cfg.Providers.RequestTimeout),
	)

	clients, err := music.CreateClients(cfg.Providers.Enabled, music.Options{
		HTTP:               hc,
		NeteaseCookie:      cfg.Providers.NeteaseCookie,
		QQMusicCookie:      cfg.Providers.QQMusicCookie,
		MusixmatchToken:    cfg.Providers.MusixmatchToken,
		BaseURLs:           cfg.Providers.BaseURLs,
		KugouLyricsBaseURL: cfg.Providers.KugouLyricsBaseURL,
	})
	if err != nil {
		return nil, err
	}

	opts := []music.ManagerOption{
		music.WithProviderTimeout(cfg.Providers.Timeout),
		music.WithMatcher(cfg.Match),
		music.WithResolver(lyrics.NewResolver(cfg.Lyrics.Preferences)),
	}
	if cache := newCache(cfg); cache != nil {
		opts = append(opts, music.WithCache(cache, cfg.Cache.SearchTTL, cfg.Cache.LyricsTTL))
	}
	return music.NewManager(clients, opts...), nil
}

// newCache 根据配置选择缓存后端，Redis 不可用时回退到内存缓存
func newCache(cfg *config.Config) music.Cache {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		log.Info().Msg("Cache disabled")
		return nil
	case config.CacheRedis:
		rc, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err == nil {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis cache")
			return rc
		}
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis, falling back to memory cache")
	}
	return musiccache.New()
}

// Run 运行 HTTP 服务直到 ctx 取消
func (a *App) Run(ctx context.Context) error {
	log.Info().
		Str("addr", a.cfg.Server.Addr).
		Strs("providers", a.manager.ProviderNames()).
		Str("cache", a.cfg.Cache.Backend).
		Msg("Starting lyrics API")
	return a.server.Run(ctx)
}

// Manager 返回歌词管理器
func (a *App) Manager() *music.Manager {
	return a.manager
}

func (a *App) Close() error {
	return a.manager.Close()
}
