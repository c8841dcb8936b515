package gateway

import "github.com/glideinproject/glidein/internal/glidein/domain"

var slurmTemplate = parseScriptTemplate("slurm", `#!/bin/bash
#SBATCH --job-name={{ .Name }}
#SBATCH --nodes=1
#SBATCH --ntasks=1
#SBATCH --cpus-per-task={{ .Cpus }}
#SBATCH --mem={{ .Memory }}M
#SBATCH --time={{ .WalltimeHrs }}:00:00
#SBATCH --output={{ .LogDir }}/{{ .Name }}.%A_%a.out
#SBATCH --error={{ .LogDir }}/{{ .Name }}.%A_%a.err
{{- if .Gpus }}
#SBATCH --gres=gpu:{{ .Gpus }}
{{- end }}
{{- if gt .Count 1 }}
#SBATCH --array=1-{{ .Count }}
{{- end }}
{{- if .Queue }}
#SBATCH --partition={{ .Queue }}
{{- end }}
{{- range .CustomHeader }}
{{ . }}
{{- end }}
{{ template "environment" . }}
srun {{ .Executable }}
`)

type slurmBackend struct{}

func (slurmBackend) name() domain.SchedulerType { return domain.Slurm }

func (slurmBackend) defaultSubmitCommand() string { return "sbatch" }

func (slurmBackend) scriptExtension() string { return ".sh" }

func (slurmBackend) writeScript(data scriptData) (string, error) {
	return render(slurmTemplate, data)
}
