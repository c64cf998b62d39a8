// Package geocode resolves delivery addresses to coordinates through a
// Nominatim-compatible HTTP service. Lookups are cached, and every failure
// path falls back to a deterministic pseudo-coordinate near the depot, so
// dispatching never stalls on the geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/core/ports"

	"github.com/patrickmn/go-cache"
)

const (
	cacheTTL             = 10 * time.Minute
	cacheCleanupInterval = 30 * time.Minute

	// Fallback coordinates scatter within this many degrees of the anchor.
	fallbackSpreadDegrees = 0.05
)

// Client implements ports.Geocoder over a Nominatim-compatible HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	anchor     kernel.GeoPoint
	logger     *slog.Logger
}

// NewClient creates a geocoding client. anchor is the depot-area coordinate
// that fallback results scatter around; timeout bounds each HTTP lookup.
func NewClient(baseURL string, timeout time.Duration, anchor kernel.GeoPoint, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache.New(cacheTTL, cacheCleanupInterval),
		anchor:     anchor,
		logger:     logger.With("component", "geocoder"),
	}
}

// searchResult is the subset of the Nominatim response we consume.
// Nominatim serializes coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve turns address text into a coordinate. The result is cached; on
// any lookup failure a deterministic pseudo-coordinate derived from the
// address text is returned instead, so identical addresses always land on
// identical points.
func (c *Client) Resolve(ctx context.Context, address string) ports.ResolvedAddress {
	if cached, found := c.cache.Get("resolve:" + address); found {
		return cached.(ports.ResolvedAddress)
	}

	resolved, err := c.lookup(ctx, address)
	if err != nil {
		c.logger.WarnContext(ctx, "geocode lookup failed, using fallback",
			"address", address, "error", err)
		resolved = ports.ResolvedAddress{
			Point:   c.fallbackPoint(address),
			Address: address,
		}
	}

	c.cache.Set("resolve:"+address, resolved, cache.DefaultExpiration)
	return resolved
}

// Reverse turns a coordinate into address text, falling back to the
// fixed-precision numeric form.
func (c *Client) Reverse(ctx context.Context, point kernel.GeoPoint) string {
	key := "reverse:" + point.String()
	if cached, found := c.cache.Get(key); found {
		return cached.(string)
	}

	address, err := c.reverseLookup(ctx, point)
	if err != nil || address == "" {
		if err != nil {
			c.logger.WarnContext(ctx, "reverse geocode failed, using coordinates",
				"point", point.String(), "error", err)
		}
		address = point.String()
	}

	c.cache.Set(key, address, cache.DefaultExpiration)
	return address
}

func (c *Client) lookup(ctx context.Context, address string) (ports.ResolvedAddress, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		c.baseURL, url.QueryEscape(address))

	var results []searchResult
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return ports.ResolvedAddress{}, err
	}
	if len(results) == 0 {
		return ports.ResolvedAddress{}, fmt.Errorf("no results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return ports.ResolvedAddress{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return ports.ResolvedAddress{}, fmt.Errorf("parse lon: %w", err)
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return ports.ResolvedAddress{}, err
	}

	label := results[0].DisplayName
	if label == "" {
		label = address
	}
	return ports.ResolvedAddress{Point: point, Address: label}, nil
}

func (c *Client) reverseLookup(ctx context.Context, point kernel.GeoPoint) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json",
		c.baseURL, point.Latitude(), point.Longitude())

	var result searchResult
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", err
	}
	return result.DisplayName, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding service returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// fallbackPoint hashes the address text onto a stable coordinate within the
// fallback spread around the anchor.
func (c *Client) fallbackPoint(address string) kernel.GeoPoint {
	h := fnv.New64a()
	_, _ = h.Write([]byte(address))
	sum := h.Sum64()

	// Two independent offsets in [-spread, +spread).
	latUnit := float64(sum&0xFFFFFFFF) / float64(1<<32)
	lonUnit := float64(sum>>32) / float64(1<<32)
	lat := c.anchor.Latitude() + (latUnit*2-1)*fallbackSpreadDegrees
	lon := c.anchor.Longitude() + (lonUnit*2-1)*fallbackSpreadDegrees

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return c.anchor
	}
	return point
}
