package downloader

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"segfetch/internal"
)

// httpClient is a thin wrapper around *http.Client carrying the User-Agent
// and credential headers every Probe and Fetcher request needs.
type httpClient struct {
	client     *http.Client
	userAgent  string
	credential Credential
}

func newHTTPClient(cfg Config) *httpClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSClientConfig:       &tls.Config{},
	}

	if cfg.ProxyURL != "" {
		if err := configureProxy(transport, cfg.ProxyURL); err != nil {
			// Proxy misconfiguration is not fatal to client construction;
			// requests simply go out direct and the caller sees connection
			// failures surfaced as ordinary ProbeError/FetchError values.
		}
	}

	return &httpClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		credential: cfg.Credential,
	}
}

func configureProxy(transport *http.Transport, proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch parsed.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create socks5 proxy: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}
	return nil
}

func (c *httpClient) newRequest(ctx context.Context, method, rawurl string, extraHeaders map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.credential {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	return req, nil
}

// do issues req, logging the outgoing request and the response status at
// debug level with credential-bearing headers redacted. Every Probe and
// Fetcher request funnels through here, so this is the one place that
// needs to know about internal.SecureLogger.
func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	internal.GetLogger().LogHTTPRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	internal.GetLogger().LogHTTPResponse(resp)
	return resp, nil
}
