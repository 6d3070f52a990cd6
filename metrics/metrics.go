package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	commandsHandledCounter *prometheus.CounterVec
	roundsStartedCounter   prometheus.Counter
	roundsFinishedCounter  *prometheus.CounterVec
	movesReceivedCounter   *prometheus.CounterVec
	seatedRoomsGauge       prometheus.Gauge
}

func (m *metrics) CommandHandled(name string) {
	m.commandsHandledCounter.WithLabelValues(name).Inc()
}

func (m *metrics) RoundStarted() {
	m.roundsStartedCounter.Inc()
}

func (m *metrics) RoundFinished(result string) {
	m.roundsFinishedCounter.WithLabelValues(result).Inc()
}

func (m *metrics) MoveReceived(move string) {
	m.movesReceivedCounter.WithLabelValues(move).Inc()
}

func (m *metrics) SetSeatedRooms(count int) {
	m.seatedRoomsGauge.Set(float64(count))
}

var Metrics = &metrics{
	commandsHandledCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebot_commands_handled_total",
		Help: "Total number of prefix commands executed",
	}, []string{"command"}),
	roundsStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablebot_blackjack_rounds_started_total",
		Help: "Total number of blackjack rounds dealt",
	}),
	roundsFinishedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebot_blackjack_rounds_finished_total",
		Help: "Total number of blackjack rounds finished, by banner result",
	}, []string{"result"}),
	movesReceivedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebot_blackjack_moves_total",
		Help: "Total number of player moves collected",
	}, []string{"move"}),
	seatedRoomsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablebot_blackjack_seated_rooms",
		Help: "Count of channels with players seated in a round",
	}),
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
