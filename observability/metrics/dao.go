package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type DAOMetrics struct {
	proposalsCreated prometheus.Counter
	votesCast        *prometheus.CounterVec
	proposalsDeleted prometheus.Counter
}

var (
	daoOnce     sync.Once
	daoRegistry *DAOMetrics
)

func DAO() *DAOMetrics {
	daoOnce.Do(func() {
		daoRegistry = &DAOMetrics{
			proposalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "dao_proposals_created_total",
				Help: "Count of proposals registered.",
			}),
			votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "dao_votes_cast_total",
				Help: "Count of ballots recorded by support value.",
			}, []string{"support"}),
			proposalsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "dao_proposals_deleted_total",
				Help: "Count of proposals tombstoned.",
			}),
		}
		prometheus.MustRegister(
			daoRegistry.proposalsCreated,
			daoRegistry.votesCast,
			daoRegistry.proposalsDeleted,
		)
	})
	return daoRegistry
}

func (m *DAOMetrics) ObserveProposalCreated() {
	if m == nil {
		return
	}
	m.proposalsCreated.Inc()
}

func (m *DAOMetrics) ObserveVote(support bool) {
	if m == nil {
		return
	}
	label := "no"
	if support {
		label = "yes"
	}
	m.votesCast.WithLabelValues(label).Inc()
}

func (m *DAOMetrics) ObserveProposalDeleted() {
	if m == nil {
		return
	}
	m.proposalsDeleted.Inc()
}
