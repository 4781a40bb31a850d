package lyrics

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 匹配 mm:ss、mm:ss.x、mm:ss.xx、mm:ss.xxx，小数分隔符也可以是冒号
var lrcTimeRe = regexp.MustCompile(`^(\d+):(\d+)(?:[.:](\d+))?$`)

const maxLineBytes = 1024 * 1024

type lrcEntry struct {
	start int64
	text  string
}

// ParseLRC 解析逐行歌词。多个时间标签的行会展开成多行，元数据标签被丢弃，
// 只有时间标签没有文本的行只作为上一行的结束标记
func ParseLRC(data string) (*Document, error) {
	var entries []lrcEntry

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		starts, text, ok := splitLRCTags(scanner.Text())
		if !ok {
			continue
		}
		for _, start := range starts {
			entries = append(entries, lrcEntry{start: start, text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed(Lrc, "failed to scan lines", err)
	}

	// LRC 的顺序由时间标签决定
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	ends := make([]int64, len(entries))
	next := OpenEnd
	for i := len(entries) - 1; i >= 0; i-- {
		if i+1 < len(entries) && entries[i+1].start > entries[i].start {
			next = entries[i+1].start
		}
		ends[i] = next
	}

	lines := make([]Line, 0, len(entries))
	for i, e := range entries {
		if e.text == "" {
			continue
		}
		// 与上一行同一时间戳的行视为翻译
		if n := len(lines); n > 0 && lines[n-1].StartMs == e.start && lines[n-1].Translation == "" {
			lines[n-1].Translation = e.text
			continue
		}
		lines = append(lines, Line{StartMs: e.start, EndMs: ends[i], Text: e.text})
	}

	return newDocument(Lrc, lines), nil
}

// splitLRCTags 拆出行首的时间标签和歌词文本，没有有效时间标签时返回 false
func splitLRCTags(raw string) ([]int64, string, bool) {
	rest := strings.TrimSpace(raw)
	var starts []int64
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		tag := rest[1:end]
		if ms, ok := parseLRCTime(tag); ok {
			starts = append(starts, ms)
		} else if tag == "" || !isDigit(tag[0]) {
			// 元数据标签或正文里的方括号
			break
		}
		// 数字开头但格式错误的时间标签直接跳过
		rest = rest[end+1:]
	}
	if len(starts) == 0 {
		return nil, "", false
	}
	return starts, strings.TrimSpace(rest), true
}

func parseLRCTime(tag string) (int64, bool) {
	m := lrcTimeRe.FindStringSubmatch(tag)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0, false
	}
	var ms int64
	if frac := m[3]; frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		ms, err = strconv.ParseInt(frac, 10, 32)
		if err != nil {
			return 0, false
		}
		// 根据位数换算：.1 表示 100ms，.49 表示 490ms
		switch len(frac) {
		case 1:
			ms *= 100
		case 2:
			ms *= 10
		}
	}
	return (minutes*60+seconds)*1000 + ms, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
