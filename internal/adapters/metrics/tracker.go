package metrics

import (
	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "chattracker"

const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"

	OpJoin         = "join"
	OpTerminate    = "terminate"
	OpContribute   = "contribute"
	OpLeave        = "leave"
	OpLeaveCurrent = "leave_current"
)

// Tracker counts calls to a ports.ChatTracker by operation and outcome. A
// call answered with a sentinel (0 from contribute, domain.NotFound from a
// leave) is a miss. Terminate is always a hit since its 0 is ambiguous.
type Tracker struct {
	inner ports.ChatTracker

	// OperationsTotal labels: op, outcome.
	OperationsTotal *prometheus.CounterVec
	// ContributionsTotal counts contributions credited to a chat.
	ContributionsTotal prometheus.Counter
	// TerminatedContributions sums the totals returned by terminate.
	TerminatedContributions prometheus.Counter
}

var _ ports.ChatTracker = (*Tracker)(nil)

func NewTracker(inner ports.ChatTracker, reg prometheus.Registerer) (*Tracker, error) {
	t := &Tracker{
		inner: inner,
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "operations_total",
				Help:      "Tracker operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		ContributionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "contributions_total",
			Help:      "Contributions credited to a current chat",
		}),
		TerminatedContributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "terminated_contributions_total",
			Help:      "Sum of chat totals returned by terminate",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{t.OperationsTotal, t.ContributionsTotal, t.TerminatedContributions} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

func (t *Tracker) Join(user, chat string) {
	t.inner.Join(user, chat)
	t.OperationsTotal.WithLabelValues(OpJoin, OutcomeHit).Inc()
}

func (t *Tracker) Terminate(chat string) int {
	total := t.inner.Terminate(chat)
	t.OperationsTotal.WithLabelValues(OpTerminate, OutcomeHit).Inc()
	t.TerminatedContributions.Add(float64(total))
	return total
}

func (t *Tracker) Contribute(user string) int {
	count := t.inner.Contribute(user)
	if count == 0 {
		t.OperationsTotal.WithLabelValues(OpContribute, OutcomeMiss).Inc()
		return count
	}
	t.OperationsTotal.WithLabelValues(OpContribute, OutcomeHit).Inc()
	t.ContributionsTotal.Inc()
	return count
}

func (t *Tracker) Leave(user, chat string) int {
	count := t.inner.Leave(user, chat)
	t.OperationsTotal.WithLabelValues(OpLeave, outcome(count)).Inc()
	return count
}

func (t *Tracker) LeaveCurrent(user string) int {
	count := t.inner.LeaveCurrent(user)
	t.OperationsTotal.WithLabelValues(OpLeaveCurrent, outcome(count)).Inc()
	return count
}

func outcome(result int) string {
	if result == domain.NotFound {
		return OutcomeMiss
	}
	return OutcomeHit
}
