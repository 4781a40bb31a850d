package lyrics

type parseFunc func(data string) (*Document, error)

// parsers 格式标签到解析函数的分发表，新增格式必须在此登记
var parsers = [formatCount]parseFunc{
	Unknown:    nil,
	Lrc:        ParseLRC,
	Yrc:        ParseYRC,
	Qrc:        ParseQRC,
	Krc:        ParseKRC,
	Musixmatch: ParseRichsync,
}

// Parse 按格式标签解析原始歌词
func Parse(p Payload) (*Document, error) {
	if p.Format < 0 || p.Format >= formatCount || parsers[p.Format] == nil {
		return nil, &UnsupportedFormatError{Format: p.Format}
	}
	return parsers[p.Format](p.Data)
}

// Supported 返回是否存在该格式的解析器
func Supported(f Format) bool {
	return f > Unknown && f < formatCount && parsers[f] != nil
}
