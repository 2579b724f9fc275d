// Package pool provides paged, cache-bounded access to the synthetic
// message sequence. A pool can sit on top of a materialized slice or
// generate messages on demand; the paging contract is identical either way.
package pool

import (
	"container/list"
	"sync"

	"chatsim/pkg/generator"
	"chatsim/pkg/logger"
	"chatsim/pkg/models"
)

const (
	// DefaultPageSize is the page length used when the config leaves it
	// unset.
	DefaultPageSize = 40
	// DefaultCachePages bounds how many pages stay resident.
	DefaultCachePages = 12
)

// Options configures a windowed pool.
type Options struct {
	PageSize   int
	CachePages int
	// TotalSize bounds the pool. Zero with a virtual backing means
	// unbounded; a materialized backing is always bounded by its length.
	TotalSize int
	// AllowWrap maps indices beyond TotalSize back via modulo instead of
	// returning empty results.
	AllowWrap bool
}

// WindowedPool serves fixed-size pages of messages under an LRU cache.
// Determinism survives eviction: regenerating an evicted page yields the
// same messages, because single-index generation is pure.
type WindowedPool struct {
	mu    sync.Mutex
	opts  Options
	gen   *generator.Generator
	fixed []models.Message

	pages map[int]*list.Element // page start -> lru element
	lru   *list.List            // front = most recently used
}

type cachedPage struct {
	start int
	msgs  []models.Message
}

// New returns a virtual pool that generates pages on demand.
func New(gen *generator.Generator, opts Options) *WindowedPool {
	p := &WindowedPool{gen: gen, opts: normalize(opts)}
	if p.opts.TotalSize == 0 && gen != nil {
		p.opts.TotalSize = gen.Params().Size
	}
	p.pages = make(map[int]*list.Element)
	p.lru = list.New()
	return p
}

// NewMaterialized returns a pool whose pages are sliced from an existing
// message slice, e.g. the output of generator.GeneratePool.
func NewMaterialized(msgs []models.Message, opts Options) *WindowedPool {
	opts = normalize(opts)
	opts.TotalSize = len(msgs)
	p := &WindowedPool{fixed: msgs, opts: opts}
	p.pages = make(map[int]*list.Element)
	p.lru = list.New()
	return p
}

func normalize(opts Options) Options {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.CachePages < 1 {
		opts.CachePages = DefaultCachePages
	}
	if opts.TotalSize < 0 {
		opts.TotalSize = 0
	}
	return opts
}

// PageSize returns the effective page length.
func (p *WindowedPool) PageSize() int { return p.opts.PageSize }

// TotalSize returns the pool bound, zero meaning unbounded.
func (p *WindowedPool) TotalSize() int { return p.opts.TotalSize }

// resolve maps an absolute index to a concrete one, applying wrap. The
// second result is false when the index is out of range and wrap is off.
func (p *WindowedPool) resolve(index int) (int, bool) {
	if index < 0 {
		return 0, false
	}
	if p.opts.TotalSize > 0 && index >= p.opts.TotalSize {
		if !p.opts.AllowWrap {
			return 0, false
		}
		index %= p.opts.TotalSize
	}
	return index, true
}

// Get returns the message at the absolute index, or nil when it is out of
// range and wrap is disabled. Hits promote the containing page to most
// recently used.
func (p *WindowedPool) Get(index int) *models.Message {
	idx, ok := p.resolve(index)
	if !ok {
		return nil
	}
	start := (idx / p.opts.PageSize) * p.opts.PageSize
	p.mu.Lock()
	defer p.mu.Unlock()
	page := p.page(start)
	off := idx - start
	if off >= len(page) {
		return nil
	}
	m := page[off]
	return &m
}

// NextPage returns the page containing startIndex. Requests are snapped to
// page boundaries; callers must not assume arbitrary offsets survive. The
// result is empty when the index is out of range and wrap is disabled.
func (p *WindowedPool) NextPage(startIndex int) []models.Message {
	idx, ok := p.resolve(startIndex)
	if !ok {
		return nil
	}
	start := (idx / p.opts.PageSize) * p.opts.PageSize
	p.mu.Lock()
	defer p.mu.Unlock()
	page := p.page(start)
	out := make([]models.Message, len(page))
	copy(out, page)
	return out
}

// Prefetch loads pageCount consecutive pages starting at the page
// containing startIndex and returns them in order. Short or missing pages
// terminate the prefetch early.
func (p *WindowedPool) Prefetch(startIndex, pageCount int) [][]models.Message {
	out := make([][]models.Message, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		pg := p.NextPage(startIndex + i*p.opts.PageSize)
		if len(pg) == 0 {
			break
		}
		out = append(out, pg)
		if len(pg) < p.opts.PageSize {
			break
		}
	}
	return out
}

// page returns the cached page at start, filling and evicting as needed.
// Callers hold p.mu.
func (p *WindowedPool) page(start int) []models.Message {
	if el, ok := p.pages[start]; ok {
		p.lru.MoveToFront(el)
		cacheHits.Inc()
		return el.Value.(*cachedPage).msgs
	}
	cacheMisses.Inc()
	msgs := p.fill(start)
	el := p.lru.PushFront(&cachedPage{start: start, msgs: msgs})
	p.pages[start] = el
	for p.lru.Len() > p.opts.CachePages {
		oldest := p.lru.Back()
		p.lru.Remove(oldest)
		delete(p.pages, oldest.Value.(*cachedPage).start)
		cacheEvictions.Inc()
	}
	return msgs
}

// fill produces the page content from the backing store.
func (p *WindowedPool) fill(start int) []models.Message {
	end := start + p.opts.PageSize
	if p.fixed != nil {
		if start >= len(p.fixed) {
			return nil
		}
		if end > len(p.fixed) {
			end = len(p.fixed)
		}
		out := make([]models.Message, end-start)
		copy(out, p.fixed[start:end])
		return out
	}
	if p.gen == nil {
		logger.Warn("pool_no_backing", "start", start)
		return nil
	}
	if p.opts.TotalSize > 0 && end > p.opts.TotalSize {
		end = p.opts.TotalSize
	}
	if end <= start {
		return nil
	}
	out := make([]models.Message, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, p.gen.GenerateAt(i))
	}
	return out
}
