package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/cre8tlystudio/adminctl/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	analyticsPrefix = "/admin/web-analytics"
	// GeoCacheKey is the state key holding resolved visitor locations.
	GeoCacheKey = "geoCache_v1"

	unknownLabel = "Unknown"
)

// AnalyticsService reads the website analytics.
type AnalyticsService interface {
	// Overview fetches all analytics panels at once. The first failing
	// panel cancels the others.
	Overview(ctx context.Context) (models.Analytics, error)
	// Geocode resolves a visitor city. It returns nil when the city is empty
	// or cannot be resolved.
	Geocode(ctx context.Context, city, region, country string) *models.GeoPoint
}

type analyticsService struct {
	client  client.Client
	store   metadata.Repository
	limiter *rate.Limiter
	logger  logging.Logger

	mu    sync.Mutex
	cache map[string]models.GeoPoint
}

// NewAnalyticsService returns the analytics service. Geocode lookups that
// miss the cache wait on limiter; a nil limiter does not throttle.
func NewAnalyticsService(c client.Client, store metadata.Repository, limiter *rate.Limiter, l logging.Logger) AnalyticsService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &analyticsService{client: c, store: store, limiter: limiter, logger: l}
}

func (s *analyticsService) Overview(ctx context.Context) (models.Analytics, error) {
	var (
		visitors  []models.VisitorsPoint
		locations []models.LocationTotal
		devices   []models.DeviceTotal
		pages     []models.PageTotal
		unique    models.UniqueVsReturning
		online    struct {
			Online models.Count `json:"online"`
		}
	)

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(panel string, decode func(json.RawMessage) error) {
		g.Go(func() error {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, analyticsPrefix+"/"+panel, nil, &raw); err != nil {
				return fmt.Errorf("get %s: %w", panel, err)
			}
			if err := decode(raw); err != nil {
				return fmt.Errorf("decode %s: %w", panel, err)
			}
			return nil
		})
	}

	fetch("visitors-over-time", func(raw json.RawMessage) error { return decodeList(raw, &visitors) })
	fetch("visitors-by-location", func(raw json.RawMessage) error { return decodeList(raw, &locations) })
	fetch("devices", func(raw json.RawMessage) error { return decodeList(raw, &devices) })
	fetch("page-views", func(raw json.RawMessage) error { return decodeList(raw, &pages) })
	fetch("unique-vs-returning", func(raw json.RawMessage) error { return decodeObject(raw, &unique) })
	fetch("online", func(raw json.RawMessage) error { return decodeObject(raw, &online) })

	if err := g.Wait(); err != nil {
		return models.Analytics{}, err
	}

	for i := range visitors {
		v := &visitors[i]
		if v.Date == "" {
			v.Date = v.CreatedAt
		}
		if v.Date == "" {
			v.Date = unknownLabel
		}
		if v.Visitors == 0 {
			v.Visitors = v.Total
		}
	}
	for i := range devices {
		if devices[i].DeviceType == "" {
			devices[i].DeviceType = unknownLabel
		}
	}
	for i := range pages {
		if pages[i].Page == "" {
			pages[i].Page = unknownLabel
		}
	}

	return models.Analytics{
		VisitorsOverTime:  nonNil(visitors),
		Locations:         nonNil(locations),
		Devices:           nonNil(devices),
		PageViews:         nonNil(pages),
		UniqueVsReturning: unique,
		Online:            online.Online,
	}, nil
}

// decodeList accepts either a JSON array or an object whose values are the
// items, keeping the object's key order.
func decodeList[T any](raw json.RawMessage, out *[]T) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, out)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return err
		}
		var item T
		if err := dec.Decode(&item); err != nil {
			return err
		}
		*out = append(*out, item)
	}
	return nil
}

func decodeObject(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *analyticsService) Geocode(ctx context.Context, city, region, country string) *models.GeoPoint {
	if city == "" {
		return nil
	}
	key := city + "," + region + "," + country

	if p, ok := s.cached(ctx, key); ok {
		return &p
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn(ctx, "geocode throttled", "key", key, "error", err)
		return nil
	}

	query := url.Values{}
	query.Set("city", city)
	query.Set("region", region)
	query.Set("country", country)

	var point *models.GeoPoint
	if err := s.client.GetJSON(ctx, analyticsPrefix+"/geo", query, &point); err != nil {
		s.logger.Error(ctx, "geocode failed", "key", key, "error", err)
		return nil
	}
	if point == nil {
		return nil
	}

	s.remember(ctx, key, *point)
	return point
}

func (s *analyticsService) cached(ctx context.Context, key string) (models.GeoPoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCacheLocked(ctx)
	p, ok := s.cache[key]
	return p, ok
}

func (s *analyticsService) remember(ctx context.Context, key string, p models.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCacheLocked(ctx)
	s.cache[key] = p

	b, err := json.Marshal(s.cache)
	if err != nil {
		s.logger.Error(ctx, "encode geo cache failed", "error", err)
		return
	}
	if err := s.store.Set(ctx, GeoCacheKey, string(b)); err != nil {
		s.logger.Error(ctx, "save geo cache failed", "error", err)
	}
}

func (s *analyticsService) loadCacheLocked(ctx context.Context) {
	if s.cache != nil {
		return
	}
	s.cache = make(map[string]models.GeoPoint)

	raw, err := s.store.Get(ctx, GeoCacheKey)
	if err != nil {
		s.logger.Warn(ctx, "load geo cache failed", "error", err)
		return
	}
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), &s.cache); err != nil {
		s.logger.Warn(ctx, "discarding unreadable geo cache", "error", err)
		s.cache = make(map[string]models.GeoPoint)
	}
}
