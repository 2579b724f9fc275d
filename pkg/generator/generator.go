// Package generator fabricates the deterministic synthetic message stream.
// A message is a pure function of (index, params): the same inputs produce
// a byte-identical record in every process, which is what lets the pool
// regenerate evicted pages without drift.
package generator

import (
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"chatsim/pkg/directory"
	"chatsim/pkg/models"
	"chatsim/pkg/seedrand"
)

// indexSpread decorrelates the per-index random streams of adjacent
// indices. The value is arbitrary but is part of the reproducibility
// format and must match across implementations.
const indexSpread = 15721

// dedupPerturb offsets the per-index seed on a de-duplication retry.
const dedupPerturb = 0x9e37

const (
	dedupCapacity = 2048
	dedupAttempts = 6
	replyMinIndex = 8
	replyMaxBack  = 500
	shortTextLen  = 6
)

// tsJitter bounds the symmetric timestamp jitter around the interpolated
// position in the span.
const tsJitter = time.Hour

// Template family cumulative thresholds. Must sum to 1.0.
const (
	familyCanned = 0.42
	familySalad  = familyCanned + 0.30
	familyTrade  = familySalad + 0.15
)

var (
	generatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_generator_messages_total",
		Help: "Messages produced by the generator.",
	})
	dedupRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatsim_generator_dedup_retries_total",
		Help: "Regeneration attempts caused by recency-cache text collisions.",
	})
)

// Params fixes a generation run. Identical Params yield identical messages
// at every index.
type Params struct {
	Seed     uint32
	Size     int
	SpanDays int
	// Now anchors the timestamp span, epoch milliseconds. Zero is replaced
	// with the wall clock when the generator is constructed.
	Now int64

	ReplyFraction      float64
	AttachmentFraction float64
	PinnedFraction     float64
}

// DefaultParams returns the stock fractions for a pool of the given size.
func DefaultParams(seed uint32, size int) Params {
	return Params{
		Seed:               seed,
		Size:               size,
		SpanDays:           30,
		ReplyFraction:      0.06,
		AttachmentFraction: 0.04,
		PinnedFraction:     0.0008,
	}
}

// Generator produces messages for one fixed Params. Sender identities are
// snapshotted at construction: presence simulation mutating the live
// directory later must not change what a regenerated page looks like. The
// directory may be nil, in which case placeholder senders are synthesized.
type Generator struct {
	params  Params
	senders []models.Person
}

// New clamps out-of-range Params and returns a generator. Out-of-range
// values are corrected rather than rejected so generation can never fail.
func New(params Params, dir *directory.Directory) *Generator {
	if params.Size < 1 {
		params.Size = 1
	}
	if params.SpanDays < 1 {
		params.SpanDays = 1
	}
	if params.Now == 0 {
		params.Now = time.Now().UnixMilli()
	}
	params.ReplyFraction = clamp01(params.ReplyFraction)
	params.AttachmentFraction = clamp01(params.AttachmentFraction)
	params.PinnedFraction = clamp01(params.PinnedFraction)
	g := &Generator{params: params}
	if dir != nil {
		g.senders = dir.IdentitySnapshot()
	}
	return g
}

// Params returns the effective (clamped) generation parameters.
func (g *Generator) Params() Params { return g.params }

// GenerateAt returns the message at the given index. Pure: no state is
// consulted or mutated, and any index >= 0 succeeds.
func (g *Generator) GenerateAt(index int) models.Message {
	return g.generate(index, 0)
}

func (g *Generator) generate(index int, perturb uint32) models.Message {
	if index < 0 {
		index = 0
	}
	rnd := seedrand.New(g.params.Seed + uint32(index)*indexSpread + perturb)

	// Draw order is fixed; reordering changes every message downstream.
	senderDraw := rnd.Float64()
	token := rnd.Intn(len(tokens))
	indicator := rnd.Intn(len(indicators))
	timeframe := rnd.Intn(len(timeframes))
	order := rnd.Intn(len(orderTypes))

	sender := g.resolveSender(senderDraw)
	text := g.fillTemplate(rnd, token, indicator, timeframe, order)

	var attachment *models.Attachment
	if rnd.Float64() < g.params.AttachmentFraction {
		name := attachmentNames[rnd.Intn(len(attachmentNames))]
		attachment = &models.Attachment{
			Name: name,
			URL:  "assets://" + name,
			Kind: classifyAttachment(name),
		}
	}

	replyTo := ""
	if rnd.Float64() < g.params.ReplyFraction && index > replyMinIndex {
		maxBack := index - 2
		if maxBack > replyMaxBack {
			maxBack = replyMaxBack
		}
		offset := 2 + rnd.Intn(maxBack-1) // [2, maxBack]
		replyTo = models.MessageID(index - offset)
	}

	pinned := rnd.Float64() < g.params.PinnedFraction

	ts := g.timestampAt(index, rnd)

	if len(text) < shortTextLen {
		text += " " + decorations[rnd.Intn(len(decorations))]
	}

	generatedTotal.Inc()
	return models.Message{
		ID:         models.MessageID(index),
		Sender:     sender,
		Text:       text,
		TS:         ts,
		ReplyTo:    replyTo,
		Pinned:     pinned,
		Attachment: attachment,
	}
}

func (g *Generator) resolveSender(draw float64) models.Person {
	if len(g.senders) > 0 {
		return g.senders[int(draw*float64(len(g.senders)))]
	}
	n := int(draw*997) + 1
	name := fmt.Sprintf("Guest %d", n)
	return models.Person{
		ID:          fmt.Sprintf("guest_%d", n),
		Name:        name,
		DisplayName: name,
		Role:        models.RoleVerified,
	}
}

func (g *Generator) fillTemplate(rnd *seedrand.Stream, token, indicator, timeframe, order int) string {
	family := rnd.Float64()
	switch {
	case family < familyCanned:
		return cannedPhrases[rnd.Intn(len(cannedPhrases))]
	case family < familySalad:
		tpl := saladTemplates[rnd.Intn(len(saladTemplates))]
		return fmt.Sprintf(tpl, tokens[token], indicators[indicator], timeframes[timeframe])
	case family < familyTrade:
		price := tokenBasePrice[token] * rnd.Range(0.90, 1.10)
		tp := price * rnd.Range(1.02, 1.08)
		sl := price * rnd.Range(0.95, 0.99)
		pct := rnd.Range(-15, 15)
		return fmt.Sprintf("%s %s @ %s | TP %s | SL %s (%s)",
			orderTypes[order], tokens[token],
			formatPrice(price), formatPrice(tp), formatPrice(sl),
			formatPercent(pct))
	default:
		tpl := questionTemplates[rnd.Intn(len(questionTemplates))]
		price := tokenBasePrice[token] * rnd.Range(0.90, 1.10)
		return fmt.Sprintf(tpl, tokens[token], formatPrice(price))
	}
}

// timestampAt interpolates the index's position across the configured span
// ending at Now, then jitters it by up to +-1h. Timestamps are monotone in
// expectation, not strictly.
func (g *Generator) timestampAt(index int, rnd *seedrand.Stream) int64 {
	span := int64(g.params.SpanDays) * 24 * time.Hour.Milliseconds()
	start := g.params.Now - span
	pos := start + int64(float64(span)*float64(index)/float64(g.params.Size))
	jitter := int64(rnd.Range(-1, 1) * float64(tsJitter.Milliseconds()))
	return pos + jitter
}

// GeneratePool materializes size messages with pool-level de-duplication:
// a bounded recency set of text hashes forces a perturbed regeneration on
// collision, up to dedupAttempts tries, then accepts the collision. Size
// <= 0 falls back to the configured pool size.
func (g *Generator) GeneratePool(size int) []models.Message {
	if size <= 0 {
		size = g.params.Size
	}
	seen := newRecencySet(dedupCapacity)
	out := make([]models.Message, size)
	for i := 0; i < size; i++ {
		msg := g.generate(i, 0)
		for attempt := 1; attempt <= dedupAttempts && seen.contains(hashText(msg.Text)); attempt++ {
			dedupRetries.Inc()
			msg = g.generate(i, uint32(attempt)*dedupPerturb)
		}
		seen.add(hashText(msg.Text))
		out[i] = msg
	}
	return out
}

func hashText(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// recencySet is a fixed-capacity set with FIFO eviction.
type recencySet struct {
	cap   int
	order []uint64
	set   map[uint64]struct{}
}

func newRecencySet(capacity int) *recencySet {
	return &recencySet{
		cap: capacity,
		set: make(map[uint64]struct{}, capacity),
	}
}

func (r *recencySet) contains(h uint64) bool {
	_, ok := r.set[h]
	return ok
}

func (r *recencySet) add(h uint64) {
	if _, ok := r.set[h]; ok {
		return
	}
	if len(r.order) >= r.cap {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.set, oldest)
	}
	r.order = append(r.order, h)
	r.set[h] = struct{}{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func classifyAttachment(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "png", "jpg", "jpeg", "gif", "webp":
		return models.AttachmentImage
	case "mp4", "mov", "webm":
		return models.AttachmentVideo
	case "pdf", "xlsx", "csv", "txt", "docx":
		return models.AttachmentDocument
	default:
		return models.AttachmentOther
	}
}

// formatPrice renders a price with two decimals and comma grouping.
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
