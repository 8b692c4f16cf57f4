package anchor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

// FuzzyTolerance is the per-axis distance, in degrees, within which a cached
// entry for another coordinate is accepted (roughly 11 km).
const FuzzyTolerance = 0.1

// Key is the exact cache key for a coordinate, method and date.
func Key(lat, lng float64, method model.CalculationMethod, date string) string {
	return fmt.Sprintf("%.4f-%.4f-%s-%s", lat, lng, method, date)
}

// suffix is the part of a key shared by every coordinate for one method and date.
func suffix(method model.CalculationMethod, date string) string {
	return fmt.Sprintf("-%s-%s", method, date)
}

// entry keeps the requested coordinate next to the timetable. SourceLat and
// SourceLng are where the timetable was actually fetched; promotion copies
// them unchanged so fuzzy matches never chain past FuzzyTolerance.
type entry struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	SourceLat float64           `json:"sourceLat"`
	SourceLng float64           `json:"sourceLng"`
	Anchors   model.AnchorTimes `json:"anchors"`
}

func fetched(lat, lng float64, a model.AnchorTimes) entry {
	return entry{Latitude: lat, Longitude: lng, SourceLat: lat, SourceLng: lng, Anchors: a}
}

// promoted is e re-keyed under the requested coordinate.
func (e entry) promoted(lat, lng float64) entry {
	e.Latitude, e.Longitude = lat, lng
	return e
}

func (e entry) near(lat, lng float64) bool {
	return math.Abs(e.SourceLat-lat) <= FuzzyTolerance && math.Abs(e.SourceLng-lng) <= FuzzyTolerance
}

// Cache is the in-memory tier. The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) get(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) put(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// nearest returns the first entry, in key order, that shares sfx and lies
// within FuzzyTolerance of the coordinate.
func (c *Cache) nearest(sfx string, lat, lng float64) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		if strings.HasSuffix(k, sfx) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if e := c.entries[k]; e.near(lat, lng) {
			return e, true
		}
	}
	return entry{}, false
}

// Len reports how many timetables are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
