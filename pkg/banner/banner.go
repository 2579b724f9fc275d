package banner

import (
	"fmt"

	"chatsim/pkg/config"
)

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗███████╗██╗███╗   ███╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝██╔════╝██║████╗ ████║
██║     ███████║███████║   ██║   ███████╗██║██╔████╔██║
██║     ██╔══██║██╔══██║   ██║   ╚════██║██║██║╚██╔╝██║
╚██████╗██║  ██║██║  ██║   ██║   ███████║██║██║ ╚═╝ ██║
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝╚═╝     ╚═╝
`

// Print writes the startup banner and a compact view of the effective
// configuration.
func Print(cfg config.Config, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Pool:      %d messages over %d days (seed %d)\n", cfg.Pool.Size, cfg.Pool.SpanDays, cfg.Pool.Seed)
	fmt.Printf("Members:   %d (seed %d)\n", cfg.Directory.Size, cfg.Directory.Seed)
	fmt.Printf("Playback:  %.0f msg/min, jitter %.0f%%, typing %v\n",
		cfg.Playback.RatePerMin, cfg.Playback.JitterFraction*100, cfg.Playback.SimulateTyping)
	if cfg.Metrics.Enabled {
		fmt.Printf("Metrics:   http://%s/metrics\n", cfg.Metrics.Addr)
	}
	if cfg.Store.PinPath != "" {
		fmt.Printf("Pin store: %s\n", cfg.Store.PinPath)
	}
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Println()
}
