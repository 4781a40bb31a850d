package lyrics

// AttachTranslation 把 LRC 格式的翻译按开始时间合并进文档，返回新文档，原文档不变。
// 已有翻译的行保持原样
func AttachTranslation(doc *Document, translation string) *Document {
	if doc == nil || len(doc.Lines) == 0 {
		return doc
	}
	parsed, err := ParseLRC(translation)
	if err != nil || len(parsed.Lines) == 0 {
		return doc
	}

	byStart := make(map[int64]string, len(parsed.Lines))
	for _, l := range parsed.Lines {
		if _, ok := byStart[l.StartMs]; !ok {
			byStart[l.StartMs] = l.Text
		}
	}

	lines := make([]Line, len(doc.Lines))
	copy(lines, doc.Lines)
	for i := range lines {
		if lines[i].Translation != "" {
			continue
		}
		if t, ok := byStart[lines[i].StartMs]; ok {
			lines[i].Translation = t
		}
	}
	return &Document{Lines: lines, Format: doc.Format, StrictlyOrdered: doc.StrictlyOrdered}
}
