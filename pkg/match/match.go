package match

import (
	"fmt"
	"strings"
)

// Type 候选结果与查询的匹配程度，数值越大越可信
type Type int

const (
	None Type = iota
	FuzzyTitleOnly
	FuzzyTitleArtist
	Exact
)

var typeNames = [...]string{
	None:             "None",
	FuzzyTitleOnly:   "FuzzyTitleOnly",
	FuzzyTitleArtist: "FuzzyTitleArtist",
	Exact:            "Exact",
}

func (t Type) String() string {
	if t < None || t > Exact {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, ok := ParseType(string(text))
	if !ok {
		return fmt.Errorf("unknown match type %q", text)
	}
	*t = v
	return nil
}

// ParseType 解析 String 的输出
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return None, false
}

// downgrade 降一级，None 保持不变
func (t Type) downgrade() Type {
	if t <= None {
		return None
	}
	return t - 1
}

// Query 一次搜索请求的目标曲目。Artists 的顺序即相关度顺序
type Query struct {
	Title      string
	Artists    []string
	Album      string
	DurationMs int64 // 0 表示未知
}

// Keywords 拼接标题和歌手作为搜索关键词
func (q Query) Keywords() string {
	parts := make([]string, 0, len(q.Artists)+1)
	if t := strings.TrimSpace(q.Title); t != "" {
		parts = append(parts, t)
	}
	for _, a := range q.Artists {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

// Track 待评分的候选曲目
type Track struct {
	Title      string
	Artists    []string
	Album      string
	DurationMs int64
}
