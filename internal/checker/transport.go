package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

const (
	dialTimeout         = 5 * time.Second
	dialKeepAlive       = 30 * time.Second
	tlsHandshakeTimeout = 5 * time.Second
	idleConnTimeout     = 90 * time.Second
)

// Response is what a transport observed for one GET.
type Response struct {
	StatusCode int
	Elapsed    time.Duration
}

// Transport issues a single timed GET. Any error means no usable
// response was received.
type Transport interface {
	Get(ctx context.Context, url string, timeout time.Duration) (Response, error)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds a transport, optionally tunnelling through
// proxyURL (http, https or socks5 scheme). maxConns sizes the idle pool.
// Redirects are followed with the net/http default policy, so the final
// status is reported; a 3xx only surfaces when it carries no Location.
func NewHTTPTransport(proxyURL string, maxConns int) (*HTTPTransport, error) {
	if maxConns < 1 {
		maxConns = 1
	}

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: dialKeepAlive,
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		IdleConnTimeout:     idleConnTimeout,
		MaxIdleConns:        maxConns,
		MaxIdleConnsPerHost: maxConns,
		ForceAttemptHTTP2:   true,
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		switch u.Scheme {
		case "http", "https":
			tr.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			d, err := proxy.FromURL(u, dialer)
			if err != nil {
				return nil, fmt.Errorf("build socks5 dialer: %w", err)
			}
			cd, ok := d.(proxy.ContextDialer)
			if !ok {
				return nil, errors.New("socks5 dialer does not implement DialContext")
			}
			tr.Proxy = nil
			tr.DialContext = cd.DialContext
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
	}

	return &HTTPTransport{client: &http.Client{Transport: tr}}, nil
}

// Get performs the request under its own deadline. Elapsed covers
// sending the request, waiting for headers and draining the body.
func (t *HTTPTransport) Get(ctx context.Context, target string, timeout time.Duration) (Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}

	return Response{
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
	}, nil
}

// CloseIdleConnections releases pooled keep-alive connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}
