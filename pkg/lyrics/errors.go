package lyrics

import (
	"errors"
	"fmt"

	"lyrics-api/pkg/provider"
)

var (
	// ErrMalformed 输入不符合格式语法，*ParseError 通过 errors.Is 匹配该值
	ErrMalformed = errors.New("malformed lyrics")
	// ErrNoField 没有任何可尝试解析的字段
	ErrNoField = errors.New("no lyrics field available")
)

// ParseError 表示某个格式的原文无法解析
type ParseError struct {
	Format Format
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s lyrics: %s: %v", e.Format, e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed %s lyrics: %s", e.Format, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

func malformed(format Format, detail string, err error) error {
	return &ParseError{Format: format, Detail: detail, Err: err}
}

// UnsupportedFormatError 格式标签没有对应的解析器
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported lyrics format: %s", e.Format)
}

// UnknownProviderError 回退解析器没有该提供商的字段顺序
type UnknownProviderError struct {
	Provider provider.Provider
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("no field preference for provider: %s", e.Provider)
}
