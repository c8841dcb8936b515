package gateway

import "github.com/glideinproject/glidein/internal/glidein/domain"

var pbsTemplate = parseScriptTemplate("pbs", `#!/bin/bash
#PBS -N {{ .Name }}
#PBS -l nodes=1:ppn={{ .Cpus }}{{ if .Gpus }}:gpus={{ .Gpus }}{{ end }}
#PBS -l mem={{ .Memory }}mb
#PBS -l walltime={{ .WalltimeHrs }}:00:00
#PBS -o {{ .LogDir }}
#PBS -e {{ .LogDir }}
{{- if gt .Count 1 }}
#PBS -t 1-{{ .Count }}
{{- end }}
{{- if .Queue }}
#PBS -q {{ .Queue }}
{{- end }}
{{- range .CustomHeader }}
{{ . }}
{{- end }}
{{ template "environment" . }}
{{ .Executable }}
`)

type pbsBackend struct{}

func (pbsBackend) name() domain.SchedulerType { return domain.PBS }

func (pbsBackend) defaultSubmitCommand() string { return "qsub" }

func (pbsBackend) scriptExtension() string { return ".pbs" }

func (pbsBackend) writeScript(data scriptData) (string, error) {
	return render(pbsTemplate, data)
}

// PBS counts memory in units of 1024 where the coordinator uses 1000.
func convertPbsMemory(demand *domain.JobDemand) {
	if demand.Has(domain.Memory) {
		demand.Resources[domain.Memory] = demand.Get(domain.Memory) * 1024 / 1000
	}
}
