// Package aladhan is a minimal client for the public Aladhan prayer-times API.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

const DefaultBaseURL = "https://api.aladhan.com/v1"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aladhan: unexpected status %d: %s", e.Code, e.Body)
}

// Retryable is false for definite client errors. 429 is retryable.
func (e *StatusError) Retryable() bool {
	if e.Code == http.StatusTooManyRequests {
		return true
	}
	return e.Code < 400 || e.Code >= 500
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. Deadlines come from the caller's context, so the
// underlying http.Client carries no timeout of its own.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

type timingsResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// Timings fetches the timetable for date ("YYYY-MM-DD") at the coordinate.
func (c *Client) Timings(ctx context.Context, date string, lat, lng float64, method int) (*model.AnchorTimes, error) {
	day, err := time.Parse(wallclock.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("aladhan: parse date %q: %w", date, err)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("method", strconv.Itoa(method))
	endpoint := fmt.Sprintf("%s/timings/%s?%s", c.baseURL, day.Format("02-01-2006"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("aladhan: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aladhan: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var payload timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("aladhan: decode: %w", err)
	}
	if payload.Code != http.StatusOK || payload.Status != "OK" {
		return nil, fmt.Errorf("aladhan: api returned code %d status %q", payload.Code, payload.Status)
	}

	t := payload.Data.Timings
	out := &model.AnchorTimes{
		Fajr:    Normalize(t["Fajr"]),
		Sunrise: Normalize(t["Sunrise"]),
		Dhuhr:   Normalize(t["Dhuhr"]),
		Asr:     Normalize(t["Asr"]),
		Maghrib: Normalize(t["Maghrib"]),
		Isha:    Normalize(t["Isha"]),
		Date:    date,
	}
	if !out.Complete() {
		return nil, fmt.Errorf("aladhan: incomplete timings for %s", date)
	}
	return out, nil
}

// Normalize strips a trailing zone annotation: "05:12 (BST)" becomes "05:12".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return s
}
