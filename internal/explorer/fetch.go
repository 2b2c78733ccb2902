package explorer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"wdx/internal"
	"wdx/internal/config"
	"wdx/internal/pipeline"
	"wdx/internal/util"
)

// Fetcher retrieves normalized files from the static host and caches
// them for a freshness window. An expired entry keeps serving its stale
// body while a single background refresh replaces it.
type Fetcher struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration
	retries int
	backoff time.Duration

	mu         sync.Mutex
	cache      map[string]cacheEntry
	refreshing map[string]bool
}

type cacheEntry struct {
	body      []byte
	fetchedAt time.Time
}

// CountrySeries is one country's slot in a multi-country join. Points is
// empty, never nil, when the fetch for that country failed.
type CountrySeries struct {
	CountryCode string           `json:"countryCode"`
	Points      []internal.Point `json:"points"`
}

func NewFetcher(cfg config.Config) *Fetcher {
	retries := cfg.FetchRetries
	if retries < 1 {
		retries = 1
	}
	return &Fetcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		ttl:        time.Duration(cfg.CacheTTLSec) * time.Second,
		retries:    retries,
		backoff:    time.Duration(cfg.FetchBackoffMs) * time.Millisecond,
		cache:      map[string]cacheEntry{},
		refreshing: map[string]bool{},
	}
}

// Points fetches and parses the data file for one pair.
func (f *Fetcher) Points(ctx context.Context, countryCode, seriesCode string) ([]internal.Point, error) {
	body, err := f.get(ctx, util.PairFileName(countryCode, seriesCode))
	if err != nil {
		return nil, err
	}
	return ParsePoints(body)
}

func (f *Fetcher) Countries(ctx context.Context) ([]internal.Country, error) {
	body, err := f.get(ctx, pipeline.CountriesFile)
	if err != nil {
		return nil, err
	}
	var out []internal.Country
	err = parseTable(body, func(record []string) {
		out = append(out, internal.Country{Code: record[0], Name: record[1]})
	})
	return out, err
}

func (f *Fetcher) Series(ctx context.Context) ([]internal.Series, error) {
	body, err := f.get(ctx, pipeline.SeriesFile)
	if err != nil {
		return nil, err
	}
	var out []internal.Series
	err = parseTable(body, func(record []string) {
		out = append(out, internal.Series{Code: record[0], Name: record[1]})
	})
	return out, err
}

// PointsForCountries fans out one independent fetch per country and
// joins once all settle. A failed country keeps its slot with an empty
// point sequence; the batch itself never fails.
func (f *Fetcher) PointsForCountries(ctx context.Context, countryCodes []string, seriesCode string) []CountrySeries {
	results := make([]CountrySeries, len(countryCodes))

	var wg sync.WaitGroup
	for i, code := range countryCodes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			points, err := f.Points(ctx, code, seriesCode)
			if err != nil || points == nil {
				points = []internal.Point{}
			}
			results[i] = CountrySeries{CountryCode: code, Points: points}
		}(i, code)
	}
	wg.Wait()

	return results
}

func (f *Fetcher) get(ctx context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	entry, ok := f.cache[name]
	if ok {
		if time.Since(entry.fetchedAt) < f.ttl {
			f.mu.Unlock()
			return entry.body, nil
		}
		if !f.refreshing[name] {
			f.refreshing[name] = true
			go f.refresh(name)
		}
		f.mu.Unlock()
		return entry.body, nil
	}
	f.mu.Unlock()

	body, err := f.fetchWithRetry(ctx, name)
	if err != nil {
		return nil, err
	}
	f.store(name, body)
	return body, nil
}

func (f *Fetcher) refresh(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), f.client.Timeout+time.Second)
	defer cancel()

	body, err := f.fetchWithRetry(ctx, name)

	f.mu.Lock()
	delete(f.refreshing, name)
	f.mu.Unlock()

	if err == nil {
		f.store(name, body)
	}
}

func (f *Fetcher) store(name string, body []byte) {
	f.mu.Lock()
	f.cache[name] = cacheEntry{body: body, fetchedAt: time.Now()}
	f.mu.Unlock()
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, name string) ([]byte, error) {
	url := f.baseURL + "/" + name

	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		if attempt > 1 {
			backoff := f.backoff*time.Duration(1<<(attempt-2)) + time.Duration(rand.Intn(100))*time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < f.retries {
				lastErr = fmt.Errorf("fetch %s: status %d", name, resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("fetch %s: status %d", name, resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("fetch %s failed", name)
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ParsePoints reads a per-entity data file. The Explorer re-sorts on use;
// file order is preserved here. Unparseable rows are skipped.
func ParsePoints(body []byte) ([]internal.Point, error) {
	out := make([]internal.Point, 0)
	err := parseTable(body, func(record []string) {
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return
		}
		p := internal.Point{Year: year}
		if raw := strings.TrimSpace(record[1]); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return
			}
			p.Value = &v
		}
		out = append(out, p)
	})
	return out, err
}

func parseTable(body []byte, fn func(record []string)) error {
	r := csv.NewReader(bytes.NewReader(body))
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) < 2 {
			continue
		}
		fn(record)
	}
}
