package gateway

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

// Gateway is the local batch system glideins are launched into.
type Gateway interface {
	// Submit launches demand.RequestedCount() glideins of the demand's shape.
	Submit(ctx context.Context, demand *domain.JobDemand) error
	RunningCount(ctx context.Context) (int, error)
	IdleCount(ctx context.Context) (int, error)
	// Cleanup removes the glidein scratch directory once nothing is running any more.
	Cleanup(ctx context.Context, runningCmd string, dir string) error
}

type Config struct {
	Scheduler  domain.SchedulerType
	RunningCmd string
	// Optional; idle glideins count as zero when unset.
	IdleCmd string
	// Overrides the backend's default submit command, e.g. "sbatch --parsable".
	SubmitCommand string
	// Where submit scripts are written. Defaults to the OS temp directory.
	SubmitDir    string
	LogDir       string
	Executable   string
	WalltimeHrs  int
	Queue        string
	Site         string
	CustomHeader []string
}

// backend is the scheduler specific part of a gateway.
type backend interface {
	name() domain.SchedulerType
	defaultSubmitCommand() string
	scriptExtension() string
	writeScript(data scriptData) (string, error)
}

type schedulerGateway struct {
	config  Config
	backend backend
	runner  CommandRunner
	log     *log.Entry
}

// New returns the gateway for the configured scheduler.
func New(config Config, runner CommandRunner, logger *log.Entry) (Gateway, error) {
	var b backend
	switch config.Scheduler {
	case domain.HTCondor:
		b = condorBackend{}
	case domain.PBS:
		b = pbsBackend{}
	case domain.Slurm:
		b = slurmBackend{}
	case domain.UGE:
		b = ugeBackend{}
	case domain.LSF:
		b = lsfBackend{}
	default:
		return nil, &glideinerrors.ErrUnsupportedBackend{Scheduler: string(config.Scheduler)}
	}
	if config.SubmitDir == "" {
		config.SubmitDir = os.TempDir()
	}
	if config.LogDir == "" {
		config.LogDir = config.SubmitDir
	}
	if config.WalltimeHrs <= 0 {
		config.WalltimeHrs = defaultWalltimeHrs
	}
	return &schedulerGateway{
		config:  config,
		backend: b,
		runner:  runner,
		log:     logger.WithField("scheduler", b.name()),
	}, nil
}

// UnitConversion returns the per demand conversion into the scheduler's native units.
func UnitConversion(scheduler domain.SchedulerType) func(*domain.JobDemand) {
	switch scheduler {
	case domain.PBS:
		return convertPbsMemory
	default:
		return func(*domain.JobDemand) {}
	}
}

func (g *schedulerGateway) Submit(ctx context.Context, demand *domain.JobDemand) error {
	count := demand.RequestedCount()
	data := newScriptData(g.config, demand, count)
	script, err := g.backend.writeScript(data)
	if err != nil {
		return g.submissionError(count, err)
	}

	path := filepath.Join(g.config.SubmitDir, data.Name+g.backend.scriptExtension())
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return g.submissionError(count, errors.WithStack(err))
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			g.log.WithError(err).Warnf("failed to remove submit script %s", path)
		}
	}()

	submitCommand := g.config.SubmitCommand
	if submitCommand == "" {
		submitCommand = g.backend.defaultSubmitCommand()
	}
	command := submitCommand + " " + shellquote.Join(path)
	g.log.Infof("launching %d glidein(s) for %s: %s", count, demand, command)
	if encoded, err := json.Marshal(demand); err == nil {
		g.log.WithField("demand", string(encoded)).Debug("submitting demand")
	}
	output, err := g.runner.Run(ctx, command)
	if err != nil {
		return g.submissionError(count, errors.WithMessage(err, strings.TrimSpace(output)))
	}
	g.log.Debugf("submit output: %s", strings.TrimSpace(output))
	return nil
}

func (g *schedulerGateway) submissionError(count int, err error) error {
	return &glideinerrors.ErrSubmission{Scheduler: string(g.backend.name()), Count: count, Err: err}
}

func (g *schedulerGateway) RunningCount(ctx context.Context) (int, error) {
	return g.queryCount(ctx, g.config.RunningCmd)
}

func (g *schedulerGateway) IdleCount(ctx context.Context) (int, error) {
	if g.config.IdleCmd == "" {
		return 0, nil
	}
	return g.queryCount(ctx, g.config.IdleCmd)
}

func (g *schedulerGateway) queryCount(ctx context.Context, command string) (int, error) {
	output, err := g.runner.Run(ctx, command)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil {
		return 0, errors.Wrapf(err, "output of %q is not a job count", command)
	}
	return count, nil
}

func newName() string {
	return "glidein-" + strings.Split(uuid.New().String(), "-")[0]
}
