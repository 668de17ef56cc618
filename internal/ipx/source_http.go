package ipx

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http2"
)

// HTTPSupplier fetches ids that carry a URL scheme from an allow-listed
// set of origins, reusing keep-alive connection pools across requests.
type HTTPSupplier struct {
	AllowedHosts map[string]struct{}
	MaxAge       int

	httpClient  *http.Client
	httpsClient *http.Client
}

// NewHTTPSupplier builds a supplier from an allow-list of origin strings.
// Entries without a scheme are treated as http://.
func NewHTTPSupplier(domains []string, maxAge int) *HTTPSupplier {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		entry := strings.TrimSpace(d)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "://") {
			entry = "http://" + entry
		}
		u, err := url.Parse(entry)
		if err != nil || u.Hostname() == "" {
			continue
		}
		allowed[u.Hostname()] = struct{}{}
	}

	httpTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
	}
	httpsTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
	}
	// Upgrade the TLS pool to HTTP/2 so origins that support it keep one
	// multiplexed connection instead of one per concurrent request.
	_ = http2.ConfigureTransport(httpsTransport)

	return &HTTPSupplier{
		AllowedHosts: allowed,
		MaxAge:       maxAge,
		httpClient:   &http.Client{Transport: httpTransport, Timeout: 30 * time.Second},
		httpsClient:  &http.Client{Transport: httpsTransport, Timeout: 30 * time.Second},
	}
}

func (s *HTTPSupplier) Fetch(ctx context.Context, id string, opts RequestOptions) (*SourceDescriptor, error) {
	u, err := url.Parse(id)
	if err != nil {
		return nil, BadRequest("Invalid URL")
	}
	host := u.Hostname()
	if host == "" {
		return nil, Forbidden("Hostname is missing")
	}
	if !opts.BypassDomain {
		if len(s.AllowedHosts) == 0 {
			return nil, Forbidden("Forbidden host")
		}
		if _, ok := s.AllowedHosts[host]; !ok {
			return nil, Forbidden("Forbidden host")
		}
	}

	client := s.httpClient
	if strings.EqualFold(u.Scheme, "https") {
		client = s.httpsClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, BadRequest("Invalid URL")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, InternalError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := resp.Status
		if idx := strings.IndexByte(reason, ' '); idx >= 0 {
			reason = reason[idx+1:]
		}
		_ = resp.Body.Close()
		return nil, UpstreamError(resp.StatusCode, reason)
	}

	maxAge := s.MaxAge
	if n, ok := parseMaxAge(resp.Header.Get("Cache-Control")); ok {
		maxAge = n
	}
	var mtime time.Time
	hasMTime := false
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			mtime = t
			hasMTime = true
		}
	}

	desc := NewSourceDescriptor(ctx, func(context.Context) ([]byte, error) {
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, InternalError(err)
		}
		return b, nil
	})
	desc.MaxAge = maxAge
	desc.HasMaxAge = true
	desc.MTime = mtime
	desc.HasMTime = hasMTime
	return desc, nil
}

func parseMaxAge(cacheControl string) (int, bool) {
	if cacheControl == "" {
		return 0, false
	}
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), "max-age=") {
			continue
		}
		v := strings.TrimPrefix(part, part[:strings.IndexByte(part, '=')+1])
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}
