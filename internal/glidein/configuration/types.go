package configuration

import (
	"github.com/glideinproject/glidein/internal/glidein/admission"
	"github.com/glideinproject/glidein/internal/glidein/domain"
	"github.com/glideinproject/glidein/internal/glidein/gateway"
	"github.com/glideinproject/glidein/internal/glidein/priority"
)

type GlideinConfiguration struct {
	// JSON-RPC endpoint of the coordinator.
	Address string `mapstructure:"address" validate:"required_unless=SshState true"`
	// Seconds between cycles. Values below one make the client run a single cycle.
	Delay    int  `mapstructure:"delay"`
	SshState bool `mapstructure:"ssh_state"`
	// Where the state is read from when SshState is set.
	StateFile  string `mapstructure:"state_file"`
	Executable string `mapstructure:"executable"`
	Site       string `mapstructure:"site"`
}

type ClusterConfiguration struct {
	Scheduler       domain.SchedulerType `mapstructure:"scheduler" validate:"required"`
	RunningCmd      string               `mapstructure:"running_cmd" validate:"required"`
	IdleCmd         string               `mapstructure:"idle_cmd"`
	LimitPerSubmit  *int                 `mapstructure:"limit_per_submit" validate:"required"`
	MaxTotalJobs    *int                 `mapstructure:"max_total_jobs" validate:"required"`
	MaxIdleJobs     int                  `mapstructure:"max_idle_jobs" validate:"gte=0"`
	MaxCpusPerJob   *float64             `mapstructure:"max_cpus_per_job" validate:"omitempty,gte=0"`
	MaxGpusPerJob   *float64             `mapstructure:"max_gpus_per_job" validate:"omitempty,gte=0"`
	MaxMemoryPerJob *float64             `mapstructure:"max_memory_per_job" validate:"omitempty,gte=0"`
	MaxDiskPerJob   *float64             `mapstructure:"max_disk_per_job" validate:"omitempty,gte=0"`
	GpuOnly         bool                 `mapstructure:"gpu_only"`
	CpuOnly         bool                 `mapstructure:"cpu_only"`
	PrioritizeJobs  priority.Order       `mapstructure:"prioritize_jobs"`
	Cleanup         bool                 `mapstructure:"cleanup"`
	DirCleanup      string               `mapstructure:"dir_cleanup" validate:"required_if=Cleanup true"`
	SubmitCommand   string               `mapstructure:"submit_command"`
	SubmitDir       string               `mapstructure:"submit_dir"`
	WalltimeHrs     int                  `mapstructure:"walltime_hrs" validate:"gte=0"`
	Queue           string               `mapstructure:"queue"`
	CustomHeader    []string             `mapstructure:"custom_header"`
}

type ModeConfiguration struct {
	Debug       bool   `mapstructure:"debug"`
	MetricsPort uint16 `mapstructure:"metrics_port"`
}

type Configuration struct {
	Glidein GlideinConfiguration `mapstructure:"glidein"`
	Cluster ClusterConfiguration `mapstructure:"cluster"`
	Mode    ModeConfiguration    `mapstructure:"mode"`
}

// Constraints is the static part of each cycle's admission limits.
func (c ClusterConfiguration) Constraints() admission.Constraints {
	constraints := admission.Constraints{
		MaxIdleJobs: c.MaxIdleJobs,
		MaxPerJob:   map[string]float64{},
		GpuOnly:     c.GpuOnly,
		CpuOnly:     c.CpuOnly,
	}
	if c.LimitPerSubmit != nil {
		constraints.LimitPerSubmit = *c.LimitPerSubmit
	}
	if c.MaxTotalJobs != nil {
		constraints.MaxTotalJobs = *c.MaxTotalJobs
	}
	caps := map[string]*float64{
		domain.Cpus:   c.MaxCpusPerJob,
		domain.Gpus:   c.MaxGpusPerJob,
		domain.Memory: c.MaxMemoryPerJob,
		domain.Disk:   c.MaxDiskPerJob,
	}
	for resource, limit := range caps {
		if limit != nil {
			constraints.MaxPerJob[resource] = *limit
		}
	}
	return constraints
}

// PriorityOrder falls back to priority.DefaultOrder when prioritize_jobs is unset.
func (c ClusterConfiguration) PriorityOrder() priority.Order {
	if len(c.PrioritizeJobs.Keys) == 0 {
		return priority.DefaultOrder()
	}
	return c.PrioritizeJobs
}

func (c Configuration) GatewayConfig() gateway.Config {
	return gateway.Config{
		Scheduler:     c.Cluster.Scheduler,
		RunningCmd:    c.Cluster.RunningCmd,
		IdleCmd:       c.Cluster.IdleCmd,
		SubmitCommand: c.Cluster.SubmitCommand,
		SubmitDir:     c.Cluster.SubmitDir,
		LogDir:        c.Cluster.DirCleanup,
		Executable:    c.Glidein.Executable,
		WalltimeHrs:   c.Cluster.WalltimeHrs,
		Queue:         c.Cluster.Queue,
		Site:          c.Glidein.Site,
		CustomHeader:  c.Cluster.CustomHeader,
	}
}
