package configuration

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
	"github.com/glideinproject/glidein/internal/glidein/admission"
	"github.com/glideinproject/glidein/internal/glidein/domain"
	"github.com/glideinproject/glidein/internal/glidein/priority"
)

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}

func validConfiguration() Configuration {
	return Configuration{
		Glidein: GlideinConfiguration{
			Address: "http://coordinator.example.com/jsonrpc",
			Delay:   60,
		},
		Cluster: ClusterConfiguration{
			Scheduler:      domain.Slurm,
			RunningCmd:     "squeue -u $USER -h | wc -l",
			LimitPerSubmit: intPtr(10),
			MaxTotalJobs:   intPtr(100),
			MaxIdleJobs:    admission.DefaultMaxIdleJobs,
		},
	}
}

func TestValidateConfiguration_Valid(t *testing.T) {
	assert.NoError(t, ValidateConfiguration(validConfiguration()))
}

func TestValidateConfiguration_SshStateNeedsNoAddress(t *testing.T) {
	config := validConfiguration()
	config.Glidein.Address = ""
	config.Glidein.SshState = true

	assert.NoError(t, ValidateConfiguration(config))
}

func TestValidateConfiguration_MissingKeys(t *testing.T) {
	tests := map[string]struct {
		modify      func(c *Configuration)
		expectedKey string
	}{
		"running_cmd": {
			modify:      func(c *Configuration) { c.Cluster.RunningCmd = "" },
			expectedKey: "cluster.running_cmd",
		},
		"address": {
			modify:      func(c *Configuration) { c.Glidein.Address = "" },
			expectedKey: "glidein.address",
		},
		"limit_per_submit": {
			modify:      func(c *Configuration) { c.Cluster.LimitPerSubmit = nil },
			expectedKey: "cluster.limit_per_submit",
		},
		"max_total_jobs": {
			modify:      func(c *Configuration) { c.Cluster.MaxTotalJobs = nil },
			expectedKey: "cluster.max_total_jobs",
		},
		"dir_cleanup": {
			modify:      func(c *Configuration) { c.Cluster.Cleanup = true },
			expectedKey: "cluster.dir_cleanup",
		},
		"scheduler": {
			modify:      func(c *Configuration) { c.Cluster.Scheduler = "" },
			expectedKey: "cluster.scheduler",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			config := validConfiguration()
			tc.modify(&config)

			err := ValidateConfiguration(config)

			var missing *glideinerrors.ErrMissingConfig
			require.True(t, errors.As(err, &missing), "unexpected error %v", err)
			assert.Equal(t, tc.expectedKey, missing.Key)
			assert.Equal(t, 2, glideinerrors.ExitCode(err))
		})
	}
}

func TestValidateConfiguration_UnsupportedScheduler(t *testing.T) {
	config := validConfiguration()
	config.Cluster.Scheduler = "torque"

	err := ValidateConfiguration(config)

	var unsupported *glideinerrors.ErrUnsupportedBackend
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "torque", unsupported.Scheduler)
}

func TestValidateConfiguration_NegativeCap(t *testing.T) {
	config := validConfiguration()
	config.Cluster.MaxGpusPerJob = floatPtr(-1)

	err := ValidateConfiguration(config)

	var invalid *glideinerrors.ErrInvalidArgument
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "cluster.max_gpus_per_job", invalid.Name)
}

func TestConstraints(t *testing.T) {
	config := validConfiguration()
	config.Cluster.MaxMemoryPerJob = floatPtr(8000)
	config.Cluster.MaxGpusPerJob = floatPtr(1)
	config.Cluster.GpuOnly = true

	assert.Equal(t, admission.Constraints{
		LimitPerSubmit: 10,
		MaxTotalJobs:   100,
		MaxIdleJobs:    admission.DefaultMaxIdleJobs,
		MaxPerJob:      map[string]float64{domain.Memory: 8000, domain.Gpus: 1},
		GpuOnly:        true,
	}, config.Cluster.Constraints())
}

func TestPriorityOrder(t *testing.T) {
	config := validConfiguration()
	assert.Equal(t, priority.DefaultOrder(), config.Cluster.PriorityOrder())

	config.Cluster.PrioritizeJobs = priority.MustParseOrder("-disk")
	assert.Equal(t, priority.MustParseOrder("-disk"), config.Cluster.PriorityOrder())
}

func TestGatewayConfig(t *testing.T) {
	config := validConfiguration()
	config.Cluster.DirCleanup = "/scratch/glideins"
	config.Cluster.Queue = "gpu"
	config.Glidein.Site = "CHTC"

	gatewayConfig := config.GatewayConfig()

	assert.Equal(t, domain.Slurm, gatewayConfig.Scheduler)
	assert.Equal(t, "/scratch/glideins", gatewayConfig.LogDir)
	assert.Equal(t, "gpu", gatewayConfig.Queue)
	assert.Equal(t, "CHTC", gatewayConfig.Site)
	assert.Equal(t, config.Cluster.RunningCmd, gatewayConfig.RunningCmd)
}
