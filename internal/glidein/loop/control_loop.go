package loop

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
	"github.com/glideinproject/glidein/internal/glidein/admission"
	"github.com/glideinproject/glidein/internal/glidein/domain"
	"github.com/glideinproject/glidein/internal/glidein/gateway"
	"github.com/glideinproject/glidein/internal/glidein/metrics"
	"github.com/glideinproject/glidein/internal/glidein/monitoring"
	"github.com/glideinproject/glidein/internal/glidein/priority"
	"github.com/glideinproject/glidein/internal/glidein/state"
)

type Config struct {
	// Reported to the coordinator with every cycle summary.
	Uuid string
	// Time between cycles. Anything under a second runs a single cycle.
	Delay       time.Duration
	Order       priority.Order
	Constraints admission.Constraints
	// Cleanup removes DirCleanup on termination once RunningCmd reports nothing running.
	Cleanup    bool
	RunningCmd string
	DirCleanup string
}

// ControlLoop polls the coordinator for demand and launches glideins into the local scheduler until
// it's told to stop.
type ControlLoop struct {
	config    Config
	source    state.Source
	gateway   gateway.Gateway
	admission *admission.Controller
	sink      monitoring.Sink
	metrics   *metrics.Metrics
	clock     clock.Clock
	log       *log.Entry
}

func NewControlLoop(
	config Config,
	source state.Source,
	gateway gateway.Gateway,
	admission *admission.Controller,
	sink monitoring.Sink,
	metrics *metrics.Metrics,
	clock clock.Clock,
	logger *log.Entry,
) *ControlLoop {
	return &ControlLoop{
		config:    config,
		source:    source,
		gateway:   gateway,
		admission: admission,
		sink:      sink,
		metrics:   metrics,
		clock:     clock,
		log:       logger,
	}
}

// Run returns once the loop terminates, either because no delay is configured or because ctx was
// cancelled while waiting for the next cycle. A failed submission is returned immediately and
// skips cleanup.
func (l *ControlLoop) Run(ctx context.Context) error {
	for {
		err := l.runCycle(ctx)
		if !glideinerrors.IsRecoverable(err) {
			return err
		}
		if err != nil {
			l.metrics.RecordPollFailure()
			l.log.WithError(err).Warn("error getting running job count")
		}
		if l.config.Delay < time.Second || !l.wait(ctx) {
			break
		}
	}
	if l.config.Cleanup {
		// The scheduler commands still have to run after a shutdown signal.
		if err := l.gateway.Cleanup(context.WithoutCancel(ctx), l.config.RunningCmd, l.config.DirCleanup); err != nil {
			return errors.WithMessagef(err, "cleaning up %s", l.config.DirCleanup)
		}
	}
	return nil
}

// wait reports whether another cycle should run.
func (l *ControlLoop) wait(ctx context.Context) bool {
	timer := l.clock.NewTimer(l.config.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		l.log.Info("shutdown requested, stopping")
		return false
	case <-timer.C():
		return true
	}
}

func (l *ControlLoop) runCycle(ctx context.Context) error {
	start := l.clock.Now()
	defer func() {
		l.metrics.RecordCycle(l.clock.Since(start))
	}()

	demands := l.source.Fetch(ctx)
	counters, err := l.counters(ctx)
	if err != nil {
		return err
	}
	l.metrics.RecordCounters(counters)

	summary := domain.CycleSummary{Uuid: l.config.Uuid, JobsRunning: counters.Running}
	if len(demands) == 0 {
		l.log.Info("no state, nothing to do")
	} else {
		ranked := priority.Rank(demands, l.config.Order)
		plan, err := l.admission.Admit(ctx, ranked, counters, l.config.Constraints)
		if plan != nil {
			l.metrics.RecordPlan(plan)
		}
		if err != nil {
			return err
		}
		summary.JobsLaunched = plan.Admitted
		l.log.Infof("launched %d glideins", plan.Admitted)
	}

	l.sink.Report(ctx, summary)
	return nil
}

func (l *ControlLoop) counters(ctx context.Context) (admission.Counters, error) {
	running, err := l.gateway.RunningCount(ctx)
	if err != nil {
		return admission.Counters{}, &glideinerrors.ErrTransientPoll{Source: "running count", Err: err}
	}
	idle, err := l.gateway.IdleCount(ctx)
	if err != nil {
		return admission.Counters{}, &glideinerrors.ErrTransientPoll{Source: "idle count", Err: err}
	}
	return admission.Counters{Running: running, Idle: idle}, nil
}
