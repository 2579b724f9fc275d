package pool

import (
	"context"

	"golang.org/x/time/rate"

	"chatsim/pkg/logger"
	"chatsim/pkg/models"
)

// StreamOptions configures the bulk streaming path.
type StreamOptions struct {
	// StartIndex is the absolute cursor to begin at.
	StartIndex int
	// RatePerMin is the target emission rate; values below 1 are clamped.
	RatePerMin float64
	// Burst passes through to the token bucket; zero means 1.
	Burst int
}

// Stream drains the pool through emit, paced by a token-bucket limiter at
// roughly RatePerMin. This is the performance-oriented fast path: pacing
// comes from the bucket, so inter-emission gaps do not follow the manual
// scheduler's symmetric jitter distribution. Ordering is preserved (one
// goroutine walks pages sequentially). Stream returns when the context is
// cancelled or the pool is exhausted; with wrap enabled it never exhausts.
func (p *WindowedPool) Stream(ctx context.Context, opts StreamOptions, emit func(index int, msg models.Message)) error {
	if opts.RatePerMin < 1 {
		opts.RatePerMin = 1
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RatePerMin/60.0), burst)

	cursor := opts.StartIndex
	if cursor < 0 {
		cursor = 0
	}
	wrapped := false
	for {
		if p.opts.AllowWrap && p.opts.TotalSize > 0 {
			cursor %= p.opts.TotalSize
		}
		page := p.NextPage(cursor)
		if len(page) == 0 {
			if p.opts.AllowWrap && p.opts.TotalSize > 0 && !wrapped {
				wrapped = true
				cursor = 0
				continue
			}
			logger.Debug("stream_exhausted", "cursor", cursor)
			return nil
		}
		wrapped = false
		start := (cursor / p.opts.PageSize) * p.opts.PageSize
		for off := cursor - start; off < len(page); off++ {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			emit(start+off, page[off])
			streamEmitted.Inc()
		}
		cursor = start + len(page)
	}
}
