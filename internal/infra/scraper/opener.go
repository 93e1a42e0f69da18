package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"feed-aggregator/internal/domain/entity"
)

// Opener opens the resource a feed URI points to. The caller closes the reader.
type Opener interface {
	Open(ctx context.Context, uri *url.URL) (io.ReadCloser, error)
}

// SchemeOpener opens http, https and file URIs.
type SchemeOpener struct {
	client    *http.Client
	userAgent string
}

// NewOpener builds an opener whose HTTP client follows cfg.
func NewOpener(cfg Config) *SchemeOpener {
	dialer := &net.Dialer{
		Timeout:   cfg.Timeout,
		KeepAlive: 30 * time.Second,
	}
	if cfg.DenyPrivateIPs {
		dialer.Control = denyPrivate
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			return nil
		},
	}
	return &SchemeOpener{client: client, userAgent: cfg.UserAgent}
}

// NewOpenerWithClient uses client as is.
func NewOpenerWithClient(client *http.Client, userAgent string) *SchemeOpener {
	return &SchemeOpener{client: client, userAgent: userAgent}
}

// Open implements Opener.
func (o *SchemeOpener) Open(ctx context.Context, uri *url.URL) (io.ReadCloser, error) {
	switch uri.Scheme {
	case "http", "https":
		return o.openHTTP(ctx, uri)
	case "file":
		return openFile(uri)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri.Scheme)
	}
}

func (o *SchemeOpener) openHTTP(ctx context.Context, uri *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", o.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.5")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

func openFile(uri *url.URL) (io.ReadCloser, error) {
	path := uri.Path
	if path == "" {
		path = uri.Opaque
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func denyPrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); ip != nil && entity.IsPrivateIP(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ip)
	}
	return nil
}
