package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViewsPublished counts commitments written to the bulletin
	ViewsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulletin_views_published_total",
		Help: "Total number of views committed to the bulletin",
	})

	// ViewConflicts counts emitted conflict notifications
	ViewConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulletin_view_conflicts_total",
		Help: "Total number of view conflicts reported",
	})

	// ApprovalRequests counts quorum approval rounds opened for novel views
	ApprovalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulletin_approval_requests_total",
		Help: "Total number of view approval rounds opened",
	})

	// RoundTimeouts counts approval rounds abandoned by the clock
	RoundTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulletin_round_timeouts_total",
		Help: "Total number of approval rounds rolled back on timeout",
	})

	// CommitteeSize tracks the current whitelist size
	CommitteeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bulletin_committee_size",
		Help: "Current number of committee members",
	})
)
