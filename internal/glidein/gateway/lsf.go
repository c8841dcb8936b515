package gateway

import "github.com/glideinproject/glidein/internal/glidein/domain"

var lsfTemplate = parseScriptTemplate("lsf", `#!/bin/bash
#BSUB -J "{{ .Name }}{{ if gt .Count 1 }}[1-{{ .Count }}]{{ end }}"
#BSUB -n {{ .Cpus }}
#BSUB -R "span[hosts=1] rusage[mem={{ .Memory }}]"
#BSUB -W {{ .WalltimeHrs }}:00
#BSUB -o {{ .LogDir }}/{{ .Name }}.%J.%I.out
#BSUB -e {{ .LogDir }}/{{ .Name }}.%J.%I.err
{{- if .Gpus }}
#BSUB -gpu "num={{ .Gpus }}"
{{- end }}
{{- if .Queue }}
#BSUB -q {{ .Queue }}
{{- end }}
{{- range .CustomHeader }}
{{ . }}
{{- end }}
{{ template "environment" . }}
{{ .Executable }}
`)

type lsfBackend struct{}

func (lsfBackend) name() domain.SchedulerType { return domain.LSF }

// bsub only reads #BSUB directives from stdin.
func (lsfBackend) defaultSubmitCommand() string { return "bsub <" }

func (lsfBackend) scriptExtension() string { return ".lsf" }

func (lsfBackend) writeScript(data scriptData) (string, error) {
	return render(lsfTemplate, data)
}
