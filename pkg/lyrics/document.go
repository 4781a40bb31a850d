package lyrics

import (
	"fmt"
	"math"
	"strings"
)

// OpenEnd 标记没有后续行的最后一行（LRC 的末行没有结束时间）
const OpenEnd int64 = math.MaxInt64

// Format 原始歌词格式标签
type Format int

const (
	Unknown Format = iota
	Lrc
	Yrc
	Qrc
	Krc
	Musixmatch

	formatCount
)

var formatNames = [formatCount]string{
	Unknown:    "unknown",
	Lrc:        "lrc",
	Yrc:        "yrc",
	Qrc:        "qrc",
	Krc:        "krc",
	Musixmatch: "musixmatch",
}

func (f Format) String() string {
	if f < 0 || f >= formatCount {
		return fmt.Sprintf("format(%d)", int(f))
	}
	return formatNames[f]
}

// MarshalText 实现 encoding.TextMarshaler
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，未知名称解析为 Unknown
func (f *Format) UnmarshalText(text []byte) error {
	*f, _ = ParseFormat(string(text))
	return nil
}

// ParseFormat 将提供商返回的类型字符串映射为格式标签，大小写不敏感
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lrc":
		return Lrc, true
	case "yrc":
		return Yrc, true
	case "qrc":
		return Qrc, true
	case "krc":
		return Krc, true
	case "musixmatch", "richsync":
		return Musixmatch, true
	default:
		return Unknown, false
	}
}

// Payload 已获取但未解析的歌词原文
type Payload struct {
	Format Format `json:"format"`
	Data   string `json:"data"`
}

// Word 逐字时间片段
type Word struct {
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	Text    string `json:"text"`
}

// Line 一行歌词。Words 为空时只有行级时间
type Line struct {
	StartMs     int64  `json:"start_ms"`
	EndMs       int64  `json:"end_ms"`
	Text        string `json:"text"`
	Words       []Word `json:"words,omitempty"`
	Translation string `json:"translation,omitempty"`
}

// Unbounded 该行是否没有确定的结束时间
func (l Line) Unbounded() bool { return l.EndMs == OpenEnd }

// Document 统一的时间轴歌词文档，由解析器创建后不再修改
type Document struct {
	Lines           []Line `json:"lines"`
	Format          Format `json:"format"`
	StrictlyOrdered bool   `json:"strictly_ordered"`
}

func newDocument(format Format, lines []Line) *Document {
	if lines == nil {
		lines = []Line{}
	}
	return &Document{
		Lines:           lines,
		Format:          format,
		StrictlyOrdered: strictlyOrdered(lines),
	}
}

// strictlyOrdered 检查行之间不重叠、行内逐字有序且落在行时间范围内
func strictlyOrdered(lines []Line) bool {
	for i, line := range lines {
		if line.EndMs < line.StartMs || !wordsOrdered(line) {
			return false
		}
		if i+1 < len(lines) {
			next := lines[i+1]
			if next.StartMs < line.StartMs || line.EndMs > next.StartMs {
				return false
			}
		}
	}
	return true
}

func wordsOrdered(line Line) bool {
	for i, w := range line.Words {
		if w.EndMs < w.StartMs {
			return false
		}
		if w.StartMs < line.StartMs || (!line.Unbounded() && w.EndMs > line.EndMs) {
			return false
		}
		if i > 0 && w.StartMs < line.Words[i-1].EndMs {
			return false
		}
	}
	return true
}
