package lyrics

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
)

var krcLanguageRe = regexp.MustCompile(`(?m)^\s*\[language:([^\]]*)\]\s*$`)

// krcTranslationType language 块中 type 为 1 的内容是翻译，0 是音译
const krcTranslationType = 1

type krcLanguage struct {
	Content []struct {
		Type         int        `json:"type"`
		LyricContent [][]string `json:"lyricContent"`
	} `json:"content"`
}

// ParseKRC 解析已解密的酷狗逐字歌词，逐字时间是相对行首的偏移
func ParseKRC(data string) (*Document, error) {
	lines, err := parseWordTimed(krcGrammar, data)
	if err != nil {
		return nil, err
	}

	if m := krcLanguageRe.FindStringSubmatch(data); m != nil {
		attachKRCTranslation(lines, m[1])
	}
	return newDocument(Krc, dropEmpty(lines)), nil
}

// attachKRCTranslation 按行序写入翻译，language 块解不开时忽略
func attachKRCTranslation(lines []Line, encoded string) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return
		}
	}

	var lang krcLanguage
	if err := json.Unmarshal(raw, &lang); err != nil {
		return
	}
	for _, c := range lang.Content {
		if c.Type != krcTranslationType {
			continue
		}
		for i := 0; i < len(lines) && i < len(c.LyricContent); i++ {
			if t := strings.TrimSpace(strings.Join(c.LyricContent[i], "")); t != "" {
				lines[i].Translation = t
			}
		}
		return
	}
}
