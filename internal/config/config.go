package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lyrics-api/pkg/lyrics"
	"lyrics-api/pkg/match"
	"lyrics-api/pkg/provider"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAddr            = ":8080"
	DefaultProviderTimeout = 8 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
	DefaultMaxRetries      = 3
	DefaultSearchTTL       = 10 * time.Minute
	DefaultLyricsTTL       = 24 * time.Hour

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// TomlConfig TOML配置文件结构
type TomlConfig struct {
	Server struct {
		Addr            string `toml:"addr"`
		Mode            string `toml:"mode"`
		ReadTimeout     string `toml:"read_timeout"`
		WriteTimeout    string `toml:"write_timeout"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
	} `toml:"server"`

	Providers struct {
		Enabled             []string          `toml:"enabled"`
		Timeout             string            `toml:"timeout"`
		RequestTimeout      string            `toml:"request_timeout"`
		MaxRetries          int               `toml:"max_retries"`
		NeteaseCookie       string            `toml:"netease_cookie"`
		QQMusicCookie       string            `toml:"qqmusic_cookie"`
		MusixmatchUserToken string            `toml:"musixmatch_usertoken"`
		BaseURLs            map[string]string `toml:"base_urls"`
		KugouLyricsBaseURL  string            `toml:"kugou_lyrics_base_url"`
	} `toml:"providers"`

	Match struct {
		TitleThreshold      float64 `toml:"title_threshold"`
		ArtistThreshold     float64 `toml:"artist_threshold"`
		DurationToleranceMs int64   `toml:"duration_tolerance_ms"`
	} `toml:"match"`

	Lyrics struct {
		Preferences map[string][]string `toml:"preferences"`
	} `toml:"lyrics"`

	Cache struct {
		Backend   string `toml:"backend"`
		SearchTTL string `toml:"search_ttl"`
		LyricsTTL string `toml:"lyrics_ttl"`
	} `toml:"cache"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
	} `toml:"redis"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ProvidersConfig 提供商配置
type ProvidersConfig struct {
	Enabled            []provider.Provider
	Timeout            time.Duration
	RequestTimeout     time.Duration
	MaxRetries         int
	NeteaseCookie      string
	QQMusicCookie      string
	MusixmatchToken    string
	BaseURLs           map[provider.Provider]string
	KugouLyricsBaseURL string
}

// LyricsConfig 歌词字段回退顺序的覆盖项
type LyricsConfig struct {
	Preferences map[provider.Provider][]lyrics.Field
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Backend   string
	SearchTTL time.Duration
	LyricsTTL time.Duration
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LogConfig 日志配置
type LogConfig struct {
	Level  zerolog.Level
	Format string
}

// Config 主配置结构
type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Match     match.Matcher
	Lyrics    LyricsConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Log       LogConfig
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Providers: ProvidersConfig{
			Enabled:        provider.All(),
			Timeout:        DefaultProviderTimeout,
			RequestTimeout: DefaultRequestTimeout,
			MaxRetries:     DefaultMaxRetries,
			BaseURLs:       map[provider.Provider]string{},
		},
		Match: match.DefaultMatcher(),
		Lyrics: LyricsConfig{
			Preferences: map[provider.Provider][]lyrics.Field{},
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			SearchTTL: DefaultSearchTTL,
			LyricsTTL: DefaultLyricsTTL,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "lyrics-api:",
		},
		Log: LogConfig{
			Level:  zerolog.InfoLevel,
			Format: "console",
		},
	}
}

// DefaultPath 获取配置文件路径
func DefaultPath() string {
	// 优先使用 XDG_CONFIG_HOME 环境变量
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lyrics-api", "config.toml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot get user home directory")
		return "config.toml" // 回退到当前目录
	}

	return filepath.Join(homeDir, ".config", "lyrics-api", "config.toml")
}

// Load 加载 .env 和配置文件，path 为空时使用默认路径。
// 配置文件有误时记录错误并使用默认配置
func Load(path string) *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to load config file, using defaults")
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}

// LoadFile 读取指定配置文件并叠加到默认值上。文件不存在时返回默认配置
func LoadFile(path string) (*Config, error) {
	var tc TomlConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else {
		if _, err := toml.DecodeFile(path, &tc); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("Loaded config")
	}

	cfg := Default()
	cfg.overlay(&tc)
	applyEnv(cfg)
	return cfg, nil
}

func (c *Config) overlay(tc *TomlConfig) {
	// server
	if tc.Server.Addr != "" {
		c.Server.Addr = tc.Server.Addr
	}
	switch tc.Server.Mode {
	case "":
	case "debug", "release", "test":
		c.Server.Mode = tc.Server.Mode
	default:
		log.Warn().Str("mode", tc.Server.Mode).Msg("Invalid server mode, using default")
	}
	c.Server.ReadTimeout = parseDuration("server.read_timeout", tc.Server.ReadTimeout, c.Server.ReadTimeout)
	c.Server.WriteTimeout = parseDuration("server.write_timeout", tc.Server.WriteTimeout, c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = parseDuration("server.shutdown_timeout", tc.Server.ShutdownTimeout, c.Server.ShutdownTimeout)

	// providers
	p := tc.Providers
	if len(p.Enabled) > 0 {
		var enabled []provider.Provider
		for _, name := range p.Enabled {
			pv, err := provider.ByName(name)
			if err != nil {
				log.Warn().Str("provider", name).Msg("Unknown provider in providers.enabled, skipped")
				continue
			}
			enabled = append(enabled, pv)
		}
		c.Providers.Enabled = enabled
	}
	c.Providers.Timeout = parseDuration("providers.timeout", p.Timeout, c.Providers.Timeout)
	c.Providers.RequestTimeout = parseDuration("providers.request_timeout", p.RequestTimeout, c.Providers.RequestTimeout)
	if p.MaxRetries > 0 {
		c.Providers.MaxRetries = p.MaxRetries
	}
	c.Providers.NeteaseCookie = p.NeteaseCookie
	c.Providers.QQMusicCookie = p.QQMusicCookie
	c.Providers.MusixmatchToken = p.MusixmatchUserToken
	for name, u := range p.BaseURLs {
		pv, err := provider.ByName(name)
		if err != nil {
			log.Warn().Str("provider", name).Msg("Unknown provider in providers.base_urls, skipped")
			continue
		}
		c.Providers.BaseURLs[pv] = strings.TrimRight(u, "/")
	}
	c.Providers.KugouLyricsBaseURL = strings.TrimRight(p.KugouLyricsBaseURL, "/")

	// match
	if tc.Match.TitleThreshold > 0 {
		c.Match.TitleThreshold = tc.Match.TitleThreshold
	}
	if tc.Match.ArtistThreshold > 0 {
		c.Match.ArtistThreshold = tc.Match.ArtistThreshold
	}
	if tc.Match.DurationToleranceMs > 0 {
		c.Match.DurationToleranceMs = tc.Match.DurationToleranceMs
	}

	// lyrics
	for name, fieldNames := range tc.Lyrics.Preferences {
		pv, err := provider.ByName(name)
		if err != nil {
			log.Warn().Str("provider", name).Msg("Unknown provider in lyrics.preferences, skipped")
			continue
		}
		var fields []lyrics.Field
		for _, fn := range fieldNames {
			f, ok := lyrics.ParseField(fn)
			if !ok {
				log.Warn().Str("provider", name).Str("field", fn).Msg("Unknown lyrics field, skipped")
				continue
			}
			fields = append(fields, f)
		}
		if len(fields) > 0 {
			c.Lyrics.Preferences[pv] = fields
		}
	}

	// cache
	switch b := strings.ToLower(tc.Cache.Backend); b {
	case "":
	case CacheMemory, CacheRedis, CacheNone:
		c.Cache.Backend = b
	default:
		log.Warn().Str("backend", tc.Cache.Backend).Msg("Unknown cache backend, using default")
	}
	c.Cache.SearchTTL = parseDuration("cache.search_ttl", tc.Cache.SearchTTL, c.Cache.SearchTTL)
	c.Cache.LyricsTTL = parseDuration("cache.lyrics_ttl", tc.Cache.LyricsTTL, c.Cache.LyricsTTL)

	// redis
	if tc.Redis.Addr != "" {
		c.Redis.Addr = tc.Redis.Addr
	}
	if tc.Redis.Password != "" {
		c.Redis.Password = tc.Redis.Password
	}
	if tc.Redis.DB != 0 {
		c.Redis.DB = tc.Redis.DB
	}
	if tc.Redis.Prefix != "" {
		c.Redis.Prefix = tc.Redis.Prefix
	}

	// log
	if tc.Log.Level != "" {
		if lvl, err := zerolog.ParseLevel(tc.Log.Level); err == nil {
			c.Log.Level = lvl
		} else {
			log.Warn().Str("level", tc.Log.Level).Msg("Invalid log level, using default")
		}
	}
	if tc.Log.Format != "" {
		c.Log.Format = tc.Log.Format
	}
}

// applyEnv 配置文件中未设置的凭据从环境变量读取
func applyEnv(c *Config) {
	if c.Providers.NeteaseCookie == "" {
		c.Providers.NeteaseCookie = os.Getenv("NETEASE_COOKIE")
	}
	if c.Providers.QQMusicCookie == "" {
		c.Providers.QQMusicCookie = os.Getenv("QQMUSIC_COOKIE")
	}
	if c.Providers.MusixmatchToken == "" {
		c.Providers.MusixmatchToken = os.Getenv("MUSIXMATCH_USERTOKEN")
	}
}

func parseDuration(name, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Warn().Str("option", name).Str("value", value).Msg("Invalid duration format, using default")
		return def
	}
	return d
}
