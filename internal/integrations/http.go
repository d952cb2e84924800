package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HttpClient interface {
	Do(ctx context.Context, method, requestUrl string, body, response interface{}) error
}

// StatusError is returned for non 2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

type impl struct {
	client  *http.Client
	baseUrl string
	headers map[string]string
}

type Option func(*impl)

// WithHeader sets a header sent with every request
func WithHeader(key, value string) Option {
	return func(i *impl) {
		i.headers[key] = value
	}
}

func WithTimeout(d time.Duration) Option {
	return func(i *impl) {
		i.client.Timeout = d
	}
}

func NewHttpClient(baseUrl string, opts ...Option) HttpClient {
	c := &impl{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseUrl: baseUrl,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *impl) Do(ctx context.Context, method, requestUrl string, body, response interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyBin, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bodyBin)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+requestUrl, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	if response != nil {
		if err := json.Unmarshal(responseBody, response); err != nil {
			return err
		}
	}
	return nil
}
