package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"timeline-media/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	// DefaultFetchTimeout bounds a single remote probe.
	DefaultFetchTimeout = 20 * time.Second

	// DefaultFetchRate is the per-host request rate in requests per second.
	DefaultFetchRate = 4

	// maxProbeBytes caps how much of a remote body is read to find the header.
	maxProbeBytes = 4 << 20
)

// HostLimiter hands out one token bucket per host.
type HostLimiter struct {
	hosts map[string]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

// NewHostLimiter allows perSecond requests per host with the given burst.
// A non-positive rate disables limiting.
func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	r := rate.Limit(perSecond)
	if perSecond <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		hosts: make(map[string]*rate.Limiter),
		r:     r,
		b:     burst,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	limiter, exists := l.hosts[host]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.hosts[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

// Prober measures remote images without storing them.
type Prober struct {
	Client  *http.Client
	Limiter *HostLimiter
	Timeout time.Duration
}

// NewProber returns a prober with its own HTTP client.
func NewProber(timeout time.Duration, perHostRate float64) *Prober {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Prober{
		Client:  &http.Client{},
		Limiter: NewHostLimiter(perHostRate, 1),
		Timeout: timeout,
	}
}

// Dimensions fetches rawURL and decodes the image header for its size.
// Every failure wraps ErrFetch.
func (p *Prober) Dimensions(ctx context.Context, rawURL string) (Dimensions, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := p.Limiter.Wait(ctx, u.Host); err != nil {
		return Dimensions{}, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}

	start := time.Now()
	dims, status, err := p.fetch(ctx, rawURL)
	metrics.RemoteFetchDuration.WithLabelValues(u.Host, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}
	return dims, nil
}

func (p *Prober) fetch(ctx context.Context, rawURL string) (Dimensions, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Dimensions{}, "error", err
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Dimensions{}, "error", err
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return Dimensions{}, status, fmt.Errorf("unexpected status %s", resp.Status)
	}

	dims, _, err := DecodeDimensions(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil {
		return Dimensions{}, status, err
	}
	return dims, status, nil
}
