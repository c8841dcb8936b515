package monitoring

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/glidein/coordinator"
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

const monitoringMethod = "monitoring"

// Sink receives the summary of every cycle. Reporting is best effort.
type Sink interface {
	Report(ctx context.Context, summary domain.CycleSummary)
}

type JsonRpcSink struct {
	client   *coordinator.Client
	attempts uint
	delay    time.Duration
	log      *log.Entry
}

func NewJsonRpcSink(client *coordinator.Client, logger *log.Entry) *JsonRpcSink {
	return &JsonRpcSink{client: client, attempts: 3, delay: time.Second, log: logger}
}

func (s *JsonRpcSink) Report(ctx context.Context, summary domain.CycleSummary) {
	err := retry.Do(
		func() error {
			return s.client.Call(ctx, monitoringMethod, summary, nil)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.WithError(err).Debugf("monitoring attempt %d failed", n+1)
		}),
	)
	if err != nil {
		s.log.WithError(err).Warn("error sending monitoring info")
	}
}

// LogSink only logs the summary. Used when there is no coordinator address to report to.
type LogSink struct {
	log *log.Entry
}

func NewLogSink(logger *log.Entry) *LogSink {
	return &LogSink{log: logger}
}

func (s *LogSink) Report(_ context.Context, summary domain.CycleSummary) {
	s.log.WithFields(log.Fields{
		"jobs_running":  summary.JobsRunning,
		"jobs_launched": summary.JobsLaunched,
	}).Info("cycle complete")
}
