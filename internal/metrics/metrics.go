package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckinsTotal counts accepted check-ins by session kind.
	CheckinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_checkins_total",
		Help: "Accepted attendance check-ins.",
	}, []string{"kind"})

	// CheckinsRejected counts rejected submissions by reason.
	CheckinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_checkins_rejected_total",
		Help: "Rejected attendance submissions.",
	}, []string{"reason"})

	// ReportsExported counts report downloads by format.
	ReportsExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_reports_exported_total",
		Help: "Attendance report exports.",
	}, []string{"format"})

	// LiveSubscribers tracks open live-monitor streams.
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "absensi_live_subscribers",
		Help: "Currently connected live monitor streams.",
	})
)
