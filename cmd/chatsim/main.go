package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatsim/internal/refresher"
	"chatsim/pkg/banner"
	"chatsim/pkg/config"
	"chatsim/pkg/directory"
	"chatsim/pkg/generator"
	"chatsim/pkg/logger"
	"chatsim/pkg/models"
	"chatsim/pkg/pinstore"
	"chatsim/pkg/playback"
	"chatsim/pkg/pool"
)

// version is set via ldflags during release builds.
var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	cfgPath := flag.String("config", "", "path to YAML config file")
	poolSize := flag.Int("pool-size", 0, "override pool size")
	seed := flag.Uint("seed", 0, "override generation seed")
	rate := flag.Float64("rate", 0, "override playback rate (messages/min)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	// Flags win over config/env when provided.
	if *poolSize > 0 {
		cfg.Pool.Size = *poolSize
	}
	if *seed > 0 {
		cfg.Pool.Seed = uint32(*seed)
	}
	if *rate >= 1 {
		cfg.Playback.RatePerMin = *rate
	}

	logger.InitWithLevel(cfg.Logging.Level)
	banner.Print(cfg, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := directory.Generate(cfg.Directory.Size, cfg.Directory.Seed)
	params := generator.Params{
		Seed:               cfg.Pool.Seed,
		Size:               cfg.Pool.Size,
		SpanDays:           cfg.Pool.SpanDays,
		ReplyFraction:      cfg.Pool.ReplyFraction,
		AttachmentFraction: cfg.Pool.AttachmentFraction,
		PinnedFraction:     cfg.Pool.PinnedFraction,
	}
	gen := generator.New(params, dir)

	poolOpts := pool.Options{
		PageSize:   cfg.Pool.PageSize,
		CachePages: cfg.Pool.CachePages,
		TotalSize:  cfg.Pool.Size,
		AllowWrap:  cfg.Pool.AllowWrap,
	}
	var view *pool.WindowedPool
	if cfg.Pool.Materialize {
		logger.Info("materializing_pool", "size", cfg.Pool.Size)
		view = pool.NewMaterialized(gen.GeneratePool(cfg.Pool.Size), poolOpts)
	} else {
		view = pool.New(gen, poolOpts)
	}

	if cfg.Store.PinPath != "" {
		if err := pinstore.Open(cfg.Store.PinPath); err != nil {
			logger.Warn("pin_store_unavailable", "error", err)
		} else {
			defer func() { _ = pinstore.Close() }()
		}
	}

	typing := playback.NewTypingSignal(renderTyping, dir, playback.DefaultTypingOptions())
	opts := playback.Options{
		UseStreamAPI:             cfg.Playback.UseStreamAPI,
		SimulateTypingBeforeSend: cfg.Playback.SimulateTyping,
		RatePerMin:               cfg.Playback.RatePerMin,
		JitterFraction:           cfg.Playback.JitterFraction,
		SimulateTypingFraction:   cfg.Playback.SimulateTypingFraction,
		TypingMin:                time.Duration(cfg.Playback.TypingMinMs) * time.Millisecond,
		TypingMax:                time.Duration(cfg.Playback.TypingMaxMs) * time.Millisecond,
		TypingPerChar:            time.Duration(cfg.Playback.TypingPerCharMs) * time.Millisecond,
		SeedBase:                 cfg.Playback.SeedBase,
	}
	sched := playback.New(view, renderMessage, typing, opts)

	cancelRefresh, err := refresher.Start(ctx, cfg.Directory, dir)
	if err != nil {
		logger.Warn("presence_refresher_failed", "error", err)
		cancelRefresh = func() {}
	}
	defer cancelRefresh()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr)
	}

	if err := sched.Start(ctx); err != nil {
		logger.Error("playback_start_failed", "error", err)
		os.Exit(1)
	}

	// Periodically print presence counts alongside the feed.
	go presenceTicker(ctx, dir)

	<-ctx.Done()
	sched.Stop()
	typing.Clear()
	logger.Info("shutdown_complete", "cursor", sched.Cursor())
}

// renderMessage is the terminal render sink: the stand-in for the UI
// layer's bubble renderer.
func renderMessage(msg models.Message, live bool) {
	ts := time.UnixMilli(msg.TS).Format("15:04")
	line := fmt.Sprintf("[%s] %-18s %s", ts, msg.Sender.DisplayName+":", msg.Text)
	if msg.ReplyTo != "" {
		line += fmt.Sprintf("  (reply to %s)", msg.ReplyTo)
	}
	if msg.Attachment != nil {
		line += fmt.Sprintf("  [%s: %s]", msg.Attachment.Kind, msg.Attachment.Name)
	}
	if msg.Pinned {
		line = "📌 " + line
		if pinstore.Ready() {
			if err := pinstore.Pin(msg); err != nil {
				logger.Warn("pin_failed", "id", msg.ID, "error", err)
			}
		}
	}
	fmt.Println(line)
}

// renderTyping is the terminal typing sink.
func renderTyping(names []string) {
	if len(names) == 0 {
		return
	}
	if len(names) == 1 {
		fmt.Printf("        … %s is typing\n", names[0])
		return
	}
	fmt.Printf("        … %d people are typing\n", len(names))
}

func presenceTicker(ctx context.Context, dir *directory.Directory) {
	t := time.NewTicker(30 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			counts := dir.CountByPresence(time.Now())
			fmt.Printf("        ● %d online, %d idle, %d offline\n",
				counts[models.PresenceOnline], counts[models.PresenceIdle], counts[models.PresenceOffline])
		case <-ctx.Done():
			return
		}
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics_listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics_server_error", "error", err)
	}
}
