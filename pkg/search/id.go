package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lyrics-api/pkg/provider"
)

// ErrInvalidID 标识符与提供商要求的形状不符
var ErrInvalidID = errors.New("invalid id")

// ID 带提供商语义的歌曲标识符，只有本包中的四种实现：
// NumericID、StringID、HashID、KeyedID。使用处按类型穷举。
type ID interface {
	fmt.Stringer
	isID()
}

// NumericID 纯数字 ID（网易云、Musixmatch）
type NumericID int64

// StringID 不透明字符串 ID（汽水音乐）
type StringID string

// HashID 内容哈希（酷狗）
type HashID string

// KeyedID 数字 ID 加二级键，QQ 音乐获取歌词需要 songmid
type KeyedID struct {
	ID  string
	Key string
}

func (NumericID) isID() {}
func (StringID) isID()  {}
func (HashID) isID()    {}
func (KeyedID) isID()   {}

func (n NumericID) String() string { return strconv.FormatInt(int64(n), 10) }
func (s StringID) String() string  { return string(s) }
func (h HashID) String() string    { return string(h) }

// String 返回获取歌词时使用的键，优先二级键
func (k KeyedID) String() string {
	if k.Key != "" {
		return k.Key
	}
	return k.ID
}

// ParseID 把 URL 路径中的标识符还原为提供商对应的形状
func ParseID(p provider.Provider, s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidID)
	}

	switch p {
	case provider.Netease, provider.Musixmatch:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s expects a numeric id, got %q", ErrInvalidID, p, s)
		}
		return NumericID(n), nil
	case provider.QQMusic:
		// 纯数字视为 songid，否则视为 songmid
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return KeyedID{ID: s}, nil
		}
		return KeyedID{Key: s}, nil
	case provider.Kugou:
		return HashID(strings.ToUpper(s)), nil
	case provider.SodaMusic:
		return StringID(s), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidID, p)
	}
}
