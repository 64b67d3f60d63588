package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the portal's hot paths, exported on /metrics.
var (
	IdentityResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_identity_resolutions_total",
		Help: "Identity resolutions by outcome.",
	}, []string{"outcome"}) // matched, registered, rejected, failed

	HistoryLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_history_loads_total",
		Help: "Attendance history loads by result.",
	}, []string{"result"}) // ok, error

	QRGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_qr_generations_total",
		Help: "QR artifact generations by result.",
	}, []string{"result"}) // ok, error, stale
)
