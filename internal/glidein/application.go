package glidein

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/glideinproject/glidein/internal/common"
	"github.com/glideinproject/glidein/internal/glidein/admission"
	"github.com/glideinproject/glidein/internal/glidein/configuration"
	"github.com/glideinproject/glidein/internal/glidein/coordinator"
	"github.com/glideinproject/glidein/internal/glidein/gateway"
	"github.com/glideinproject/glidein/internal/glidein/loop"
	"github.com/glideinproject/glidein/internal/glidein/metrics"
	"github.com/glideinproject/glidein/internal/glidein/monitoring"
	"github.com/glideinproject/glidein/internal/glidein/state"
)

// ConfigDefaults are applied to keys missing from the config file.
var ConfigDefaults = map[string]interface{}{
	"cluster.max_idle_jobs":   admission.DefaultMaxIdleJobs,
	"cluster.prioritize_jobs": []string{"gpus", "memory"},
	"glidein.state_file":      state.DefaultStateFile,
}

// Run runs the control loop until it terminates. config must already have been validated.
func Run(ctx context.Context, config configuration.Configuration, uuid string) error {
	common.SetDebugLogging(config.Mode.Debug)
	if config.Mode.MetricsPort != 0 {
		shutdownMetricServer := common.ServeMetrics(config.Mode.MetricsPort)
		defer shutdownMetricServer()
	}

	controlLoop, err := NewControlLoop(config, uuid, prometheus.DefaultRegisterer, clock.RealClock{})
	if err != nil {
		return err
	}
	return controlLoop.Run(ctx)
}

// NewControlLoop wires the control loop from an already validated configuration.
func NewControlLoop(
	config configuration.Configuration,
	uuid string,
	registerer prometheus.Registerer,
	clock clock.Clock,
) (*loop.ControlLoop, error) {
	logger := log.WithFields(log.Fields{"uuid": uuid, "scheduler": config.Cluster.Scheduler})

	schedulerGateway, err := gateway.New(config.GatewayConfig(), gateway.NewShellRunner(), logger.WithField("component", "gateway"))
	if err != nil {
		return nil, err
	}
	controller := admission.NewController(
		schedulerGateway,
		gateway.UnitConversion(config.Cluster.Scheduler),
		logger.WithField("component", "admission"),
	)

	var client *coordinator.Client
	if config.Glidein.Address != "" {
		client = coordinator.NewClient(
			config.Glidein.Address,
			coordinator.MakeRetryingClient(coordinator.DefaultTimeout, logger.WithField("component", "coordinator")),
		)
	}

	loopConfig := loop.Config{
		Uuid:        uuid,
		Delay:       time.Duration(config.Glidein.Delay) * time.Second,
		Order:       config.Cluster.PriorityOrder(),
		Constraints: config.Cluster.Constraints(),
		Cleanup:     config.Cluster.Cleanup,
		RunningCmd:  config.Cluster.RunningCmd,
		DirCleanup:  config.Cluster.DirCleanup,
	}
	logger.Infof("prioritising demands by %s", loopConfig.Order)

	return loop.NewControlLoop(
		loopConfig,
		newStateSource(config.Glidein, client, logger.WithField("component", "state")),
		schedulerGateway,
		controller,
		newMonitoringSink(client, logger.WithField("component", "monitoring")),
		metrics.NewMetrics(registerer),
		clock,
		logger.WithField("component", "loop"),
	), nil
}

func newStateSource(config configuration.GlideinConfiguration, client *coordinator.Client, logger *log.Entry) state.Source {
	if config.SshState || client == nil {
		return state.NewFileSource(config.StateFile, logger)
	}
	return state.NewJsonRpcSource(client, logger)
}

func newMonitoringSink(client *coordinator.Client, logger *log.Entry) monitoring.Sink {
	if client == nil {
		return monitoring.NewLogSink(logger)
	}
	return monitoring.NewJsonRpcSink(client, logger)
}
