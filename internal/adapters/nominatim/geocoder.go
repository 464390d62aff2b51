package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/geocoder"
)

const DefaultURL = "https://nominatim.openstreetmap.org/search"

// Options configures a Geocoder.
type Options struct {
	URL       string
	UserAgent string
	// Timeout bounds a single lookup. Zero means 10s.
	Timeout time.Duration
	// Limit caps outbound requests; nil means one request per second (Nominatim usage policy).
	Limit *rate.Limiter
}

// Geocoder resolves addresses with the Nominatim search API.
type Geocoder struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	http      *http.Client
}

func New(opts Options) *Geocoder {
	g := &Geocoder{
		baseURL:   opts.URL,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		limiter:   opts.Limit,
		http:      &http.Client{},
	}
	if g.baseURL == "" {
		g.baseURL = DefaultURL
	}
	if g.userAgent == "" {
		g.userAgent = "TravelPlannerAPI/1.0"
	}
	if g.timeout <= 0 {
		g.timeout = 10 * time.Second
	}
	if g.limiter == nil {
		g.limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return g
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (g *Geocoder) Lookup(ctx context.Context, address string) (geocoder.Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geocoder.Place{}, geocoder.ErrNoMatch
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return geocoder.Place{}, fmt.Errorf("%w: %w", geocoder.ErrUnavailable, err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return geocoder.Place{}, fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return geocoder.Place{}, fmt.Errorf("%w: %w", geocoder.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return geocoder.Place{}, fmt.Errorf("%w: status %d", geocoder.ErrUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geocoder.Place{}, fmt.Errorf("%w: decode response: %w", geocoder.ErrUnavailable, err)
	}
	for _, r := range results {
		c, ok := domain.ParseCoordinate(r.Lat, r.Lon)
		if !ok {
			continue
		}
		name := r.DisplayName
		if name == "" {
			name = address
		}
		return geocoder.Place{DisplayName: name, Coord: c}, nil
	}
	return geocoder.Place{}, geocoder.ErrNoMatch
}
