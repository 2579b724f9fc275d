package playback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var emittedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chatsim_playback_emitted_total",
	Help: "Messages handed to the render sink.",
})
