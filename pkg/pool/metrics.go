package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_pool_page_cache_hits_total",
		Help: "Page requests served from the LRU cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_pool_page_cache_misses_total",
		Help: "Page requests that required generating or slicing a page.",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_pool_page_cache_evictions_total",
		Help: "Pages evicted from the LRU cache.",
	})
	streamEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_pool_stream_emitted_total",
		Help: "Messages emitted through the bulk stream path.",
	})
)
