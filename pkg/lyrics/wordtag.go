package lyrics

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// wordGrammar 描述逐字格式之间的差异，行结构都是 [start,dur] 加若干逐字标签
type wordGrammar struct {
	format      Format
	open, close byte
	// textBefore 为 true 时文本写在时间标签之前（QRC）
	textBefore bool
	// relative 为 true 时逐字开始时间相对行首（KRC）
	relative bool
}

var (
	yrcGrammar = wordGrammar{format: Yrc, open: '(', close: ')'}
	qrcGrammar = wordGrammar{format: Qrc, open: '(', close: ')', textBefore: true}
	krcGrammar = wordGrammar{format: Krc, open: '<', close: '>', relative: true}
)

var metadataTagRe = regexp.MustCompile(`^\[[A-Za-z#]+:.*\]$`)

type timingTag struct {
	pos, end   int
	start, dur int64
}

// ParseYRC 解析网易云逐字歌词
func ParseYRC(data string) (*Document, error) {
	lines, err := parseWordTimed(yrcGrammar, data)
	if err != nil {
		return nil, err
	}
	return newDocument(Yrc, dropEmpty(lines)), nil
}

// parseWordTimed 逐行解析，返回的行可能包含空行，保持输入顺序
func parseWordTimed(g wordGrammar, data string) ([]Line, error) {
	var lines []Line
	content := false

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || isMetadataLine(raw) {
			continue
		}
		start, dur, rest, ok := splitHeader(raw)
		if !ok {
			content = true
			continue
		}
		lines = append(lines, buildWordLine(g, start, dur, rest))
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed(g.format, "failed to scan lines", err)
	}
	if len(lines) == 0 && content {
		return nil, malformed(g.format, "no timed lines", nil)
	}
	return lines, nil
}

func buildWordLine(g wordGrammar, start, dur int64, rest string) Line {
	line := Line{StartMs: start, EndMs: start + dur}

	tags := scanTags(rest, g.open, g.close)
	if len(tags) == 0 {
		line.Text = strings.TrimSpace(rest)
		return line
	}

	var text strings.Builder
	for i, t := range tags {
		var w string
		if g.textBefore {
			from := 0
			if i > 0 {
				from = tags[i-1].end
			}
			w = rest[from:t.pos]
		} else {
			to := len(rest)
			if i+1 < len(tags) {
				to = tags[i+1].pos
			}
			w = rest[t.end:to]
		}
		if w == "" {
			continue
		}
		text.WriteString(w)

		ws := t.start
		if g.relative {
			if t.start > OpenEnd-start-t.dur {
				continue
			}
			ws += start
		}
		line.Words = append(line.Words, Word{StartMs: ws, EndMs: ws + t.dur, Text: w})
	}
	line.Text = strings.TrimSpace(text.String())
	return line
}

// splitHeader 解析行首的 [start,dur] 或 (start,dur)
func splitHeader(line string) (int64, int64, string, bool) {
	var closing byte
	switch line[0] {
	case '[':
		closing = ']'
	case '(':
		closing = ')'
	default:
		return 0, 0, "", false
	}
	end := strings.IndexByte(line, closing)
	if end < 0 {
		return 0, 0, "", false
	}
	start, dur, ok := parseTimingTag(line[1:end])
	if !ok {
		return 0, 0, "", false
	}
	return start, dur, line[end+1:], true
}

// scanTags 找出所有 open start,dur[,x] close 形式的标签，其余括号视为正文
func scanTags(s string, open, closing byte) []timingTag {
	var tags []timingTag
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		j := strings.IndexByte(s[i+1:], closing)
		if j < 0 {
			break
		}
		j += i + 1
		if start, dur, ok := parseTimingTag(s[i+1 : j]); ok {
			tags = append(tags, timingTag{pos: i, end: j + 1, start: start, dur: dur})
			i = j
		}
	}
	return tags
}

func parseTimingTag(inner string) (int64, int64, bool) {
	parts := strings.Split(inner, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, false
	}
	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, false
	}
	dur, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || dur < 0 {
		return 0, 0, false
	}
	// 结束时间必须能用 int64 表示
	if start > OpenEnd-dur {
		return 0, 0, false
	}
	if len(parts) == 3 {
		if _, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64); err != nil {
			return 0, 0, false
		}
	}
	return start, dur, true
}

func isMetadataLine(line string) bool {
	return line[0] == '{' || metadataTagRe.MatchString(line)
}

func dropEmpty(lines []Line) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.Text == "" && len(l.Words) == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}
