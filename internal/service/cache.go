package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш справочников.",
	}, []string{"cache"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша справочников.",
	}, []string{"cache"})
)

// CacheService — LRU-кэш справочных записей с автоматическим TTL.
// Каждый экземпляр процесса держит собственный in-memory кэш.
type CacheService[K comparable, V any] struct {
	name  string
	cache *expirable.LRU[K, V]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// name — значение лейбла cache в метриках hit/miss.
func NewCacheService[K comparable, V any](name string, maxSize int, ttl time.Duration) *CacheService[K, V] {
	return &CacheService[K, V]{
		name:  name,
		cache: expirable.NewLRU[K, V](maxSize, nil, ttl),
	}
}

// Get возвращает запись из кэша. Обновляет метрики hit/miss.
func (c *CacheService[K, V]) Get(key K) (V, bool) {
	val, ok := c.cache.Get(key)
	if ok {
		cacheHitsTotal.WithLabelValues(c.name).Inc()
		return val, true
	}
	cacheMissesTotal.WithLabelValues(c.name).Inc()
	return val, false
}

// Set добавляет или обновляет запись в кэше.
func (c *CacheService[K, V]) Set(key K, val V) {
	c.cache.Add(key, val)
}

// Delete удаляет запись из кэша.
func (c *CacheService[K, V]) Delete(key K) {
	c.cache.Remove(key)
}

// Len возвращает количество записей в кэше.
func (c *CacheService[K, V]) Len() int {
	return c.cache.Len()
}
