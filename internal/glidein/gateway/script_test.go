package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

func testScriptData(count int) scriptData {
	return scriptData{
		Name:         "glidein-abc123",
		Count:        count,
		Cpus:         4,
		Gpus:         2,
		Memory:       8000,
		Disk:         20,
		WalltimeHrs:  6,
		Queue:        "gpu",
		Site:         "Test Site",
		Executable:   "/opt/glidein_start.sh",
		LogDir:       "/scratch/logs",
		CustomHeader: []string{"# extra directive"},
	}
}

func TestWriteScript(t *testing.T) {
	tests := map[string]struct {
		backend  backend
		count    int
		expected []string
		absent   []string
	}{
		"htcondor": {
			backend: condorBackend{},
			count:   5,
			expected: []string{
				"executable = /opt/glidein_start.sh\n",
				"request_cpus = 4\n",
				"request_memory = 8000\n",
				"request_disk = 20480\n",
				"request_gpus = 2\n",
				"SITE=Test Site\"\n",
				"# extra directive\n",
				"queue 5\n",
			},
		},
		"pbs": {
			backend: pbsBackend{},
			count:   3,
			expected: []string{
				"#PBS -l nodes=1:ppn=4:gpus=2\n",
				"#PBS -l mem=8000mb\n",
				"#PBS -l walltime=6:00:00\n",
				"#PBS -t 1-3\n",
				"#PBS -q gpu\n",
				"export WALLTIME=21600\n",
				"export SITE=\"Test Site\"\n",
				"/opt/glidein_start.sh\n",
			},
		},
		"pbs single glidein has no array": {
			backend:  pbsBackend{},
			count:    1,
			expected: []string{"#PBS -N glidein-abc123\n"},
			absent:   []string{"#PBS -t"},
		},
		"slurm": {
			backend: slurmBackend{},
			count:   2,
			expected: []string{
				"#SBATCH --cpus-per-task=4\n",
				"#SBATCH --gres=gpu:2\n",
				"#SBATCH --array=1-2\n",
				"#SBATCH --partition=gpu\n",
			},
		},
		"uge": {
			backend: ugeBackend{},
			count:   2,
			expected: []string{
				"#$ -pe smp 4\n",
				"#$ -l h_vmem=2000M\n",
				"#$ -l h_rt=6:00:00\n",
				"#$ -l gpu=2\n",
				"#$ -t 1-2\n",
			},
		},
		"lsf": {
			backend: lsfBackend{},
			count:   4,
			expected: []string{
				"#BSUB -J \"glidein-abc123[1-4]\"\n",
				"#BSUB -n 4\n",
				"#BSUB -R \"span[hosts=1] rusage[mem=8000]\"\n",
				"#BSUB -W 6:00\n",
				"#BSUB -gpu \"num=2\"\n",
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			script, err := tc.backend.writeScript(testScriptData(tc.count))
			require.NoError(t, err)
			for _, line := range tc.expected {
				assert.Contains(t, script, line)
			}
			for _, line := range tc.absent {
				assert.NotContains(t, script, line)
			}
		})
	}
}

func TestWriteScript_NoGpus(t *testing.T) {
	data := testScriptData(1)
	data.Gpus = 0
	for _, b := range []backend{condorBackend{}, pbsBackend{}, slurmBackend{}, ugeBackend{}, lsfBackend{}} {
		script, err := b.writeScript(data)
		require.NoError(t, err)
		assert.NotContains(t, script, "gpus=2", b.name())
		assert.NotContains(t, script, "gpu:", b.name())
		assert.NotContains(t, script, "num=", b.name())
	}
}

func TestNewScriptData(t *testing.T) {
	data := newScriptData(Config{WalltimeHrs: 2, LogDir: "/logs"},
		domain.NewJobDemand(map[string]float64{"memory": 1500.2, "disk": 0.5}, nil), 1)

	assert.Equal(t, 1, data.Cpus, "at least one cpu is requested")
	assert.Equal(t, 1501, data.Memory)
	assert.Equal(t, 1, data.Disk)
	assert.Equal(t, 0, data.Gpus)
	assert.Regexp(t, "^glidein-[0-9a-f]{8}$", data.Name)
}
