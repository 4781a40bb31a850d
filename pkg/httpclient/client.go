package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxRetries     = 3
	DefaultRequestTimeout = 5 * time.Second
	DefaultBackoff        = 500 * time.Millisecond
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// 响应体上限，歌词和搜索结果都远小于此值
	maxBodyBytes = 8 << 20
)

// StatusError 服务端返回了非 200 状态码
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// Client 带重试的 HTTP 客户端，所有提供商共用
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	requestTimeout time.Duration
	backoff        time.Duration
	userAgent      string
	logger         zerolog.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries 总尝试次数，小于 1 时按 1 处理
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRequestTimeout 单次请求超时
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithBackoff 第 n 次重试前等待 n*d
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithComponent 设置日志中的 component 字段
func WithComponent(name string) Option {
	return func(c *Client) { c.logger = log.With().Str("component", name).Logger() }
}

// New 创建客户端
func New(opts ...Option) *Client {
	c := &Client{
		maxRetries:     DefaultMaxRetries,
		requestTimeout: DefaultRequestTimeout,
		backoff:        DefaultBackoff,
		userAgent:      DefaultUserAgent,
		logger:         log.With().Str("component", "httpclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.requestTimeout}
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	return c
}

// Do 发送请求，连接错误、429 和 5xx 会重试。返回的响应状态码为 200，调用方负责关闭 Body
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug().
				Str("url", req.URL.Redacted()).
				Int("attempt", attempt+1).
				Int("max_retries", c.maxRetries).
				Msg("Retrying request")
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("request canceled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := c.httpClient.Do(attemptReq)
		if err != nil {
			lastErr = err
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Request failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		lastErr = &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
		if !retryable(resp.StatusCode) {
			return nil, lastErr
		}
		c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Request returned retryable status")
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// Get 发送 GET 请求并读取完整响应体
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.read(req)
}

// Post 发送 POST 请求并读取完整响应体
func (c *Client) Post(ctx context.Context, url, contentType string, body []byte, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	return c.read(req)
}

func (c *Client) read(req *http.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// IsNotFound 判断错误是否来自 404 响应
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
