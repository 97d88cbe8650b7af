package citydistance

import (
	"container/list"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// DefaultMapCacheSize is the number of rendered maps kept per session.
const DefaultMapCacheSize = 32

// mapKeyPrecision is the geohash length in map keys, about 150m.
const mapKeyPrecision = 7

// MapKey identifies the map of a city. Two places sharing a label are told
// apart by the geohash of their coordinates.
func MapKey(label string, c Coordinates) string {
	return label + "|" + geohash.EncodeWithPrecision(c.Latitude, c.Longitude, mapKeyPrecision)
}

// MapCache is a fixed-capacity cache of rendered maps. When full, the least
// recently used entry is evicted. It is not safe for concurrent use.
type MapCache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type mapEntry struct {
	key string
	art MapArtifact
}

// NewMapCache returns a cache holding at most capacity maps. Capacities below
// 1 fall back to DefaultMapCacheSize.
func NewMapCache(capacity int) *MapCache {
	if capacity < 1 {
		capacity = DefaultMapCacheSize
	}
	return &MapCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the map stored under key and marks it recently used.
func (c *MapCache) Get(key string) (MapArtifact, bool) {
	el, ok := c.entries[key]
	if !ok {
		return MapArtifact{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*mapEntry).art, true
}

// Put stores art under key, evicting the least recently used entry if the
// cache is full.
func (c *MapCache) Put(key string, art MapArtifact) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*mapEntry).art = art
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&mapEntry{key: key, art: art})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*mapEntry).key)
	}
}

// Len returns the number of cached maps.
func (c *MapCache) Len() int { return c.order.Len() }

// Cap returns the cache capacity.
func (c *MapCache) Cap() int { return c.capacity }
