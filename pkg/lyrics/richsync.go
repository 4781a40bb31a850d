package lyrics

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

type richsyncPiece struct {
	Char   string  `json:"c"`
	Offset float64 `json:"o"`
}

type richsyncEntry struct {
	Start  float64         `json:"ts"`
	End    float64         `json:"te"`
	Pieces []richsyncPiece `json:"l"`
	Text   string          `json:"x"`
}

// richsyncEnvelope 兼容直接返回 richsync 对象或完整 API 响应的情况
type richsyncEnvelope struct {
	RichsyncBody *string `json:"richsync_body"`
	Message      *struct {
		Body struct {
			Richsync struct {
				RichsyncBody string `json:"richsync_body"`
			} `json:"richsync"`
		} `json:"body"`
	} `json:"message"`
}

// ParseRichsync 解析 Musixmatch richsync。每个片段从 ts+o 开始，到下一片段开始或 te 结束
func ParseRichsync(data string) (*Document, error) {
	body := strings.TrimSpace(data)
	if body == "" {
		return newDocument(Musixmatch, nil), nil
	}

	if body[0] == '{' {
		inner, err := unwrapRichsync(body)
		if err != nil {
			return nil, malformed(Musixmatch, "invalid richsync envelope", err)
		}
		body = strings.TrimSpace(inner)
		if body == "" {
			return newDocument(Musixmatch, nil), nil
		}
	}

	var entries []richsyncEntry
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return nil, malformed(Musixmatch, "invalid richsync body", err)
	}

	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		line := Line{
			StartMs: toMs(e.Start),
			EndMs:   toMs(e.End),
			Text:    strings.TrimSpace(e.Text),
			Words:   richsyncWords(e),
		}
		if line.Text == "" {
			var sb strings.Builder
			for _, p := range e.Pieces {
				sb.WriteString(p.Char)
			}
			line.Text = strings.TrimSpace(sb.String())
		}
		if line.Text == "" && len(line.Words) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return newDocument(Musixmatch, lines), nil
}

func unwrapRichsync(body string) (string, error) {
	var env richsyncEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return "", err
	}
	switch {
	case env.RichsyncBody != nil:
		return *env.RichsyncBody, nil
	case env.Message != nil:
		return env.Message.Body.Richsync.RichsyncBody, nil
	default:
		return "", errors.New("no richsync_body field")
	}
}

// richsyncWords 空白片段分隔单词，相邻的非空白片段合并为一个词，CJK 字符各自成词
func richsyncWords(e richsyncEntry) []Word {
	var words []Word
	joinable := false
	lastCJK := false
	for i, p := range e.Pieces {
		end := toMs(e.End)
		if i+1 < len(e.Pieces) {
			end = toMs(e.Start + e.Pieces[i+1].Offset)
		}

		text := strings.TrimSpace(p.Char)
		if text == "" {
			joinable = false
			continue
		}

		cjk := isCJK(text)
		leadingSpace := startsWithSpace(p.Char)
		if joinable && !leadingSpace && !cjk && !lastCJK {
			last := &words[len(words)-1]
			last.Text += text
			last.EndMs = end
		} else {
			words = append(words, Word{StartMs: toMs(e.Start + p.Offset), EndMs: end, Text: text})
		}

		joinable = !endsWithSpace(p.Char)
		lastCJK = cjk
	}
	return words
}

func toMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

func isCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
