package lyrics

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// ParseQRC 解析已解密的 QQ 音乐逐字歌词。输入可以仍然包在 QrcInfos XML 中
func ParseQRC(data string) (*Document, error) {
	content := data
	if trimmed := strings.TrimSpace(data); strings.HasPrefix(trimmed, "<") {
		extracted, err := extractQRCContent(trimmed)
		if err != nil {
			return nil, malformed(Qrc, "invalid xml container", err)
		}
		content = extracted
	}

	lines, err := parseWordTimed(qrcGrammar, content)
	if err != nil {
		return nil, err
	}
	return newDocument(Qrc, dropEmpty(lines)), nil
}

// extractQRCContent 取出 LyricContent 属性
func extractQRCContent(data string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errors.New("missing LyricContent attribute")
		}
		if err != nil {
			return "", err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "LyricContent" {
				return attr.Value, nil
			}
		}
	}
}
