package lyrics

import (
	"encoding/json"

	"lyrics-api/pkg/provider"
)

// Field 提供商歌词响应中的字段名
type Field string

const (
	FieldLrc      Field = "lrc"
	FieldYrc      Field = "yrc"
	FieldKlyric   Field = "klyric"
	FieldQrc      Field = "qrc"
	FieldKrc      Field = "krc"
	FieldRichsync Field = "richsync"
	FieldSubtitle Field = "subtitle"
	FieldLyric    Field = "lyric"
	// FieldTranslation 不参与回退，解析成功后按时间合并
	FieldTranslation Field = "translation"
)

var knownFields = []Field{
	FieldLrc, FieldYrc, FieldKlyric, FieldQrc, FieldKrc,
	FieldRichsync, FieldSubtitle, FieldLyric, FieldTranslation,
}

// ParseField 校验配置中的字段名
func ParseField(name string) (Field, bool) {
	for _, f := range knownFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Fields 一次歌词请求中可用的原始字段
type Fields map[Field]Payload

// Bundle 提供商歌词响应：未经处理的原始响应加上拆出的字段
type Bundle struct {
	Provider provider.Provider `json:"provider"`
	Raw      json.RawMessage   `json:"raw"`
	Fields   Fields            `json:"fields"`
}

// DefaultPreferences 各提供商的字段优先级，逐字优先，逐行兜底
var DefaultPreferences = map[provider.Provider][]Field{
	provider.Netease:    {FieldYrc, FieldKlyric, FieldLrc},
	provider.QQMusic:    {FieldQrc, FieldLrc},
	provider.Kugou:      {FieldKrc, FieldLrc},
	provider.Musixmatch: {FieldRichsync, FieldSubtitle},
	provider.SodaMusic:  {FieldLyric},
}

var defaultResolver = NewResolver(nil)

// Resolver 按提供商声明的顺序挑选字段解析。只看字段是否存在，不看内容长短
type Resolver struct {
	order map[provider.Provider][]Field
}

// NewResolver 在默认顺序基础上应用覆盖项
func NewResolver(overrides map[provider.Provider][]Field) *Resolver {
	order := make(map[provider.Provider][]Field, len(DefaultPreferences))
	for p, fields := range DefaultPreferences {
		order[p] = append([]Field(nil), fields...)
	}
	for p, fields := range overrides {
		if len(fields) == 0 {
			continue
		}
		order[p] = append([]Field(nil), fields...)
	}
	return &Resolver{order: order}
}

// Order 返回提供商的字段顺序
func (r *Resolver) Order(p provider.Provider) ([]Field, bool) {
	fields, ok := r.order[p]
	if !ok {
		return nil, false
	}
	return append([]Field(nil), fields...), true
}

// Resolve 返回第一个解析成功的字段生成的文档
func (r *Resolver) Resolve(p provider.Provider, fields Fields) (*Document, error) {
	doc, _, err := r.ResolveField(p, fields)
	return doc, err
}

// ResolveField 同 Resolve，同时返回实际使用的字段。全部失败时返回最后一个解析错误
func (r *Resolver) ResolveField(p provider.Provider, fields Fields) (*Document, Field, error) {
	order, ok := r.order[p]
	if !ok {
		return nil, "", &UnknownProviderError{Provider: p}
	}

	var lastErr error
	for _, f := range order {
		payload, ok := fields[f]
		if !ok {
			continue
		}
		doc, err := Parse(payload)
		if err != nil {
			lastErr = err
			continue
		}
		if t, ok := fields[FieldTranslation]; ok && t.Data != "" {
			doc = AttachTranslation(doc, t.Data)
		}
		return doc, f, nil
	}

	if lastErr == nil {
		return nil, "", ErrNoField
	}
	return nil, "", lastErr
}

// Resolve 使用默认顺序
func Resolve(p provider.Provider, fields Fields) (*Document, error) {
	return defaultResolver.Resolve(p, fields)
}
