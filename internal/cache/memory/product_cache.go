package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
)

var _ ports.ProductCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	product   *domain.Product
	expiresAt time.Time
}

// LRUCacheTTL — потокобезопасный LRU-кэш товаров с TTL.
// ttl <= 0 — без истечения.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	cache map[string]*list.Element

	mu sync.Mutex
}

// NewLRUCacheTTL — конструктор; capacity < 1 приводится к 1.
func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
	}
}

// Get — копия товара или промах. Попадание продлевает TTL.
func (c *LRUCacheTTL) Get(_ context.Context, id string) (*domain.Product, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
		return nil, false
	}
	c.ll.MoveToFront(elem)
	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneProduct(ent.product), true
}

// Set — кладёт копию товара. Товар без id игнорируется.
func (c *LRUCacheTTL) Set(_ context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[product.ID]; ok {
		ent := elem.Value.(*entry)
		ent.product = cloneProduct(product)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        product.ID,
		product:   cloneProduct(product),
		expiresAt: c.expiryFrom(now),
	})
	c.cache[product.ID] = elem
	metrics.CacheSize.Set(float64(c.ll.Len()))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Delete — убирает товар (удалён на сервере или стал неактуален).
func (c *LRUCacheTTL) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[id]; ok {
		c.removeElement(elem)
		metrics.CacheOps.WithLabelValues("deleted").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

// WarmUp — заполняет кэш списком товаров (после загрузки каталога).
func (c *LRUCacheTTL) WarmUp(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if err := c.Set(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len — текущее число записей, включая ещё не вычищенные просроченные.
func (c *LRUCacheTTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
