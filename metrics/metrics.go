// Package metrics exposes the tournament counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dosada05/swiss-tournament/models"
)

const namespace = "swiss"

// Export outcomes.
const (
	ExportSucceeded = "success"
	ExportFailed    = "failure"
)

type Metrics struct {
	matchesRecorded   *prometheus.CounterVec
	byesRecorded      prometheus.Counter
	pairingsGenerated prometheus.Counter
	unpairedPlayers   prometheus.Counter
	exports           *prometheus.CounterVec
}

// New registers the counters on reg. A nil *Metrics is valid and records nothing.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		matchesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_recorded_total",
			Help:      "Matches recorded, by result.",
		}, []string{"result"}),
		byesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "byes_recorded_total",
			Help:      "Byes granted.",
		}),
		pairingsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairings_generated_total",
			Help:      "Rounds of pairings generated.",
		}),
		unpairedPlayers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unpaired_players_total",
			Help:      "Players left without an opponent when pairing an odd field.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "standings_exports_total",
			Help:      "Standings exports, by outcome.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.matchesRecorded, m.byesRecorded, m.pairingsGenerated, m.unpairedPlayers, m.exports)
	return m
}

func (m *Metrics) MatchRecorded(result models.MatchResult) {
	if m == nil {
		return
	}
	label := "victory"
	if result == models.ResultTie {
		label = "tie"
	}
	m.matchesRecorded.WithLabelValues(label).Inc()
}

func (m *Metrics) ByeRecorded() {
	if m == nil {
		return
	}
	m.byesRecorded.Inc()
}

func (m *Metrics) PairingsGenerated(unpaired int) {
	if m == nil {
		return
	}
	m.pairingsGenerated.Inc()
	m.unpairedPlayers.Add(float64(unpaired))
}

func (m *Metrics) Export(status string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(status).Inc()
}
