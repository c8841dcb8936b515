package gateway

import "github.com/glideinproject/glidein/internal/glidein/domain"

var ugeTemplate = parseScriptTemplate("uge", `#!/bin/bash
#$ -N {{ .Name }}
#$ -S /bin/bash
#$ -pe smp {{ .Cpus }}
#$ -l h_vmem={{ div .Memory .Cpus | max 1 }}M
#$ -l h_rt={{ .WalltimeHrs }}:00:00
#$ -o {{ .LogDir }}
#$ -e {{ .LogDir }}
{{- if .Gpus }}
#$ -l gpu={{ .Gpus }}
{{- end }}
{{- if gt .Count 1 }}
#$ -t 1-{{ .Count }}
{{- end }}
{{- if .Queue }}
#$ -q {{ .Queue }}
{{- end }}
{{- range .CustomHeader }}
{{ . }}
{{- end }}
{{ template "environment" . }}
{{ .Executable }}
`)

// ugeBackend requests memory per slot, as h_vmem is a per slot limit.
type ugeBackend struct{}

func (ugeBackend) name() domain.SchedulerType { return domain.UGE }

func (ugeBackend) defaultSubmitCommand() string { return "qsub" }

func (ugeBackend) scriptExtension() string { return ".sh" }

func (ugeBackend) writeScript(data scriptData) (string, error) {
	return render(ugeTemplate, data)
}
