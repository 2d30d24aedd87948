package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type LotteryMetrics struct {
	ticketsSold    prometheus.Counter
	roundsRevealed prometheus.Counter
	prizePaid      prometheus.Counter
	openTickets    prometheus.Gauge
}

var (
	lotteryOnce     sync.Once
	lotteryRegistry *LotteryMetrics
)

func Lottery() *LotteryMetrics {
	lotteryOnce.Do(func() {
		lotteryRegistry = &LotteryMetrics{
			ticketsSold: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lottery_tickets_sold_total",
				Help: "Count of tickets sold across all rounds.",
			}),
			roundsRevealed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lottery_rounds_revealed_total",
				Help: "Count of rounds closed by a reveal.",
			}),
			prizePaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lottery_prize_paid_nex_total",
				Help: "Whole NEX paid out as prizes.",
			}),
			openTickets: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lottery_open_round_tickets",
				Help: "Tickets sold in the current round.",
			}),
		}
		prometheus.MustRegister(
			lotteryRegistry.ticketsSold,
			lotteryRegistry.roundsRevealed,
			lotteryRegistry.prizePaid,
			lotteryRegistry.openTickets,
		)
	})
	return lotteryRegistry
}

func (m *LotteryMetrics) ObserveTicketSold(openCount int) {
	if m == nil {
		return
	}
	m.ticketsSold.Inc()
	m.openTickets.Set(float64(openCount))
}

func (m *LotteryMetrics) ObserveReveal(prizeNEX float64) {
	if m == nil {
		return
	}
	m.roundsRevealed.Inc()
	m.prizePaid.Add(prizeNEX)
	m.openTickets.Set(0)
}
