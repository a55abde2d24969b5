package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счётчики игрового движка и HTTP слоя.
// Методы безопасно вызывать на nil *Metrics: тогда они ничего не делают.
type Metrics struct {
	GamesCreated   prometheus.Counter
	GamesStarted   prometheus.Counter
	GamesFinished  prometheus.Counter
	Answers        *prometheus.CounterVec
	Conflicts      *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	RateLimitDrops *prometheus.CounterVec
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of games created",
		}),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Total number of games started",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of games finished with ratings settled",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Accepted answers by correctness",
		}, []string{"correct"}),
		Conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_conflicts_total",
			Help:      "Game writes rejected because the row version changed",
		}, []string{"op"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route", "status"}),
		RateLimitDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"action"}),
	}

	reg.MustRegister(
		m.GamesCreated,
		m.GamesStarted,
		m.GamesFinished,
		m.Answers,
		m.Conflicts,
		m.HTTPDuration,
		m.RateLimitDrops,
	)

	return m
}

func (m *Metrics) IncGamesCreated() {
	if m == nil {
		return
	}
	m.GamesCreated.Inc()
}

func (m *Metrics) IncGamesStarted() {
	if m == nil {
		return
	}
	m.GamesStarted.Inc()
}

func (m *Metrics) IncGamesFinished() {
	if m == nil {
		return
	}
	m.GamesFinished.Inc()
}

func (m *Metrics) IncAnswer(correct bool) {
	if m == nil {
		return
	}
	m.Answers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// IncConflict считает проигранную гонку за версию игры
func (m *Metrics) IncConflict(op string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncRateLimited(action string) {
	if m == nil {
		return
	}
	m.RateLimitDrops.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
