package httpclient

import (
	"FightSync/internal/config"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时、自动解压、固定退避重试）
func NewHTTPClient(cfg *config.UpstreamConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	retries := cfg.RetryCount
	if retries < 1 {
		retries = 1
	}
	backoff := time.Duration(cfg.RetryBackoff) * time.Second

	return &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
		Transport: &retryTransport{
			transport: &compressedTransport{transport: transport, logger: logger},
			retries:   retries,
			backoff:   backoff,
			logger:    logger,
		},
	}
}

// retryTransport 固定退避重试（仅GET类无请求体的调用，请求可安全重发）
type retryTransport struct {
	transport http.RoundTripper
	retries   int
	backoff   time.Duration
	logger    *logrus.Logger
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < t.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(t.backoff):
			}
		}
		resp, err := t.transport.RoundTrip(req)
		if err != nil {
			lastErr = err
			t.logger.WithError(err).WithFields(logrus.Fields{
				"url":     req.URL.String(),
				"attempt": attempt + 1,
			}).Warn("上游请求失败，准备重试")
			continue
		}
		// 5xx 同样重试（最后一次直接返回响应，由调用方判断状态码）
		if resp.StatusCode >= http.StatusInternalServerError && attempt < t.retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("上游返回%d", resp.StatusCode)
			t.logger.WithFields(logrus.Fields{
				"url":     req.URL.String(),
				"status":  resp.StatusCode,
				"attempt": attempt + 1,
			}).Warn("上游返回服务端错误，准备重试")
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// 处理gzip解压
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip解压失败，返回原始响应")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{
			Reader: gzReader,
			closer: resp.Body,
		}
		resp.Header.Del("Content-Encoding")
	}

	return resp, nil
}

// gzipReadCloser 包装io.ReadCloser，关闭时同时释放解压reader和原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

// Close 先关闭gzip reader，再关闭原始响应体
func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		return err
	}
	return g.closer.Close()
}
