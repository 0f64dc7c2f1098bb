package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a fixed-capacity alias → URL cache that evicts the least recently
// used entry. Entries older than the TTL are treated as misses, which bounds
// how long a delete made through another process stays invisible. It is safe
// for concurrent use.
type LRU struct {
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
	now      func() time.Time
}

type entry struct {
	alias   string
	url     string
	expires time.Time
}

// NewLRU creates a new LRU cache with specified capacity. A ttl <= 0 keeps
// entries until they are evicted or removed.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		queue:    list.New(),
		now:      time.Now,
	}
}

// Set adds or updates an alias in the cache
func (c *LRU) Set(alias, url string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	expires := c.expiry()
	if element, exists := c.items[alias]; exists {
		c.queue.MoveToFront(element)
		e := element.Value.(*entry)
		e.url = url
		e.expires = expires
		return
	}

	c.items[alias] = c.queue.PushFront(&entry{alias: alias, url: url, expires: expires})

	if c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves the URL cached for alias and marks it recently used.
// A full lock is taken because the lookup reorders the queue.
func (c *LRU) Get(alias string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[alias]
	if !exists {
		return "", false
	}

	e := element.Value.(*entry)
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.queue.Remove(element)
		delete(c.items, alias)
		return "", false
	}

	c.queue.MoveToFront(element)
	return e.url, true
}

// Remove drops alias from the cache
func (c *LRU) Remove(alias string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if element, exists := c.items[alias]; exists {
		c.queue.Remove(element)
		delete(c.items, alias)
	}
}

// Size returns the current number of items in the cache
func (c *LRU) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

func (c *LRU) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

// evict removes the least recently used item; callers hold the lock.
func (c *LRU) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}

	c.queue.Remove(element)
	delete(c.items, element.Value.(*entry).alias)
}
