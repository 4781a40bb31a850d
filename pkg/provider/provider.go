package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 提供商没有该歌曲或该歌曲没有歌词
var ErrNotFound = errors.New("not found")

// Provider 音乐提供商类型
type Provider string

const (
	// Netease 网易云音乐
	Netease Provider = "netease"
	// QQMusic QQ音乐
	QQMusic Provider = "qq"
	// Kugou 酷狗音乐
	Kugou Provider = "kugou"
	// Musixmatch Musixmatch
	Musixmatch Provider = "musixmatch"
	// SodaMusic 汽水音乐
	SodaMusic Provider = "sodamusic"
)

// All 返回所有支持的提供商，顺序固定
func All() []Provider {
	return []Provider{Netease, QQMusic, Kugou, Musixmatch, SodaMusic}
}

// Valid 判断是否为已知提供商
func (p Provider) Valid() bool {
	switch p {
	case Netease, QQMusic, Kugou, Musixmatch, SodaMusic:
		return true
	}
	return false
}

func (p Provider) String() string { return string(p) }

// DisplayName 获取提供商显示名称
func (p Provider) DisplayName() string {
	switch p {
	case Netease:
		return "NetEase Cloud Music"
	case QQMusic:
		return "QQ Music"
	case Kugou:
		return "Kugou Music"
	case Musixmatch:
		return "Musixmatch"
	case SodaMusic:
		return "Soda Music"
	default:
		return string(p)
	}
}

// ByName 根据名称获取提供商，大小写不敏感
func ByName(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "netease", "网易云", "163":
		return Netease, nil
	case "qq", "qqmusic", "腾讯":
		return QQMusic, nil
	case "kugou", "酷狗":
		return Kugou, nil
	case "musixmatch", "mxm":
		return Musixmatch, nil
	case "sodamusic", "soda", "汽水":
		return SodaMusic, nil
	default:
		return "", fmt.Errorf("unknown provider name: %s", name)
	}
}

// Names 返回所有提供商的规范名称
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return names
}
