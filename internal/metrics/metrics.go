// Package metrics exposes Prometheus counters for tutor and game activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every mathblocks metric plus Go runtime collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// StepsTotal counts completed tutor steps by interaction ("digit-entry", "regroup").
	StepsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mathblocks_tutor_steps_total",
		Help: "Completed carry-over steps by interaction type",
	}, []string{"interaction"})

	// MistakesTotal counts recoverable learner mistakes by kind.
	// Labels: "invalid_entry", "count_mismatch", "wrong_interaction"
	MistakesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mathblocks_tutor_mistakes_total",
		Help: "Recoverable learner mistakes by kind",
	}, []string{"kind"})

	// ProblemsTotal counts solved problems by category.
	ProblemsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mathblocks_tutor_problems_total",
		Help: "Solved problems by category",
	}, []string{"category"})

	// AbortsTotal counts problems ended by a fatal engine error.
	AbortsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "mathblocks_tutor_aborts_total",
		Help: "Problems aborted by a fatal engine error",
	})

	// CapturesTotal counts skip-counting captures by result ("correct", "wrong").
	CapturesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mathblocks_skipcount_captures_total",
		Help: "Skip-counting captures by result",
	}, []string{"result"})

	// GamesStarted counts game starts by game ID.
	GamesStarted = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "mathblocks_games_started_total",
		Help: "Games started by game ID",
	}, []string{"game"})

	// SSHSessions tracks connected SSH sessions.
	SSHSessions = factory.NewGauge(prometheus.GaugeOpts{
		Name: "mathblocks_ssh_sessions",
		Help: "Currently connected SSH sessions",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the HTTP handler serving Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
