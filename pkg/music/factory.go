package music

import (
	"fmt"

	"lyrics-api/pkg/httpclient"
	"lyrics-api/pkg/kugou"
	"lyrics-api/pkg/musixmatch"
	"lyrics-api/pkg/netease"
	"lyrics-api/pkg/provider"
	"lyrics-api/pkg/qqmusic"
	"lyrics-api/pkg/sodamusic"

	"github.com/rs/zerolog/log"
)

// Options 创建客户端所需的凭据和地址，空字段使用各客户端默认值
type Options struct {
	HTTP *httpclient.Client

	NeteaseCookie   string
	QQMusicCookie   string
	MusixmatchToken string

	BaseURLs           map[provider.Provider]string
	KugouLyricsBaseURL string
}

// CreateClient 创建音乐提供商客户端
func CreateClient(p provider.Provider, opts Options) (Client, error) {
	base := opts.BaseURLs[p]
	switch p {
	case provider.Netease:
		var o []netease.Option
		if base != "" {
			o = append(o, netease.WithBaseURL(base))
		}
		return netease.NewClient(opts.HTTP, append(o, netease.WithCookie(opts.NeteaseCookie))...), nil
	case provider.QQMusic:
		var o []qqmusic.Option
		if base != "" {
			o = append(o, qqmusic.WithBaseURL(base))
		}
		return qqmusic.NewClient(opts.HTTP, append(o, qqmusic.WithCookie(opts.QQMusicCookie))...), nil
	case provider.Kugou:
		var o []kugou.Option
		if base != "" {
			o = append(o, kugou.WithSearchBaseURL(base))
		}
		if opts.KugouLyricsBaseURL != "" {
			o = append(o, kugou.WithLyricsBaseURL(opts.KugouLyricsBaseURL))
		}
		return kugou.NewClient(opts.HTTP, o...), nil
	case provider.Musixmatch:
		if opts.MusixmatchToken == "" {
			return nil, musixmatch.ErrNoToken
		}
		var o []musixmatch.Option
		if base != "" {
			o = append(o, musixmatch.WithBaseURL(base))
		}
		return musixmatch.NewClient(opts.HTTP, append(o, musixmatch.WithUserToken(opts.MusixmatchToken))...), nil
	case provider.SodaMusic:
		var o []sodamusic.Option
		if base != "" {
			o = append(o, sodamusic.WithBaseURL(base))
		}
		return sodamusic.NewClient(opts.HTTP, o...), nil
	default:
		return nil, fmt.Errorf("unknown music provider: %s", p)
	}
}

// CreateClients 按顺序创建客户端，创建失败的提供商记录警告后跳过
func CreateClients(providers []provider.Provider, opts Options) ([]Client, error) {
	var clients []Client
	for _, p := range providers {
		c, err := CreateClient(p, opts)
		if err != nil {
			log.Warn().Str("provider", p.String()).Err(err).Msg("Failed to create provider")
			continue
		}
		log.Info().Str("provider", p.DisplayName()).Msg("Created music client")
		clients = append(clients, c)
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no music providers available")
	}
	return clients, nil
}
