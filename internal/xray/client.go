package xray

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 30 * time.Second

	// responses above this size are not worth decoding
	maxResponseSize = 8 << 20
)

var (
	_ Resolver       = (*Client)(nil)
	_ TokenExchanger = (*Client)(nil)
)

// Client is the http client of an XRay compatible resolver.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

type parseResponse struct {
	Error
	Data map[string]any `json:"data"`
	Rels map[string]any `json:"rels"`
}

func (c *Client) Parse(ctx context.Context, req ParseRequest) (PostData, error) {
	form := url.Values{}
	form.Set("url", req.URL)
	if req.Target != "" && !req.SkipLinkCheck {
		form.Set("target", req.Target)
	}
	if req.AccessToken != "" {
		form.Set("token", req.AccessToken)
	}

	var res parseResponse
	if err := c.post(ctx, "/parse", form, &res); err != nil {
		return nil, err
	}

	if res.Code != "" {
		return nil, &Error{Code: res.Code, Description: res.Description}
	}

	if res.Data == nil {
		return nil, nil
	}

	data := PostData(res.Data)
	if _, ok := data["rels"]; !ok && res.Rels != nil {
		data["rels"] = res.Rels
	}

	return data, nil
}

type tokenResponse struct {
	Error
	AccessToken string `json:"access_token"`
}

func (c *Client) AccessToken(ctx context.Context, source, code string) (string, error) {
	form := url.Values{}
	form.Set("source", source)
	form.Set("code", code)

	var res tokenResponse
	if err := c.post(ctx, "/token", form, &res); err != nil {
		return "", err
	}

	if res.Code != "" {
		return "", &Error{Code: res.Code, Description: res.Description}
	}

	return res.AccessToken, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xray %s: %w", path, err)
	}
	defer resp.Body.Close()

	logrus.Debugf("xray %s %s: %d in %v", path, form.Get("url")+form.Get("source"), resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("xray %s: read body: %w", path, err)
	}

	// error responses still carry a json error document
	if err := json.Unmarshal(body, v); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("xray %s: unexpected status %d", path, resp.StatusCode)
		}
		return fmt.Errorf("xray %s: decode: %w", path, err)
	}

	return nil
}
