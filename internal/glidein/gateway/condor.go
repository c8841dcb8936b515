package gateway

import "github.com/glideinproject/glidein/internal/glidein/domain"

var condorTemplate = parseScriptTemplate("htcondor", `executable = {{ .Executable }}
output = {{ .LogDir }}/{{ .Name }}.$(Cluster).$(Process).out
error = {{ .LogDir }}/{{ .Name }}.$(Cluster).$(Process).err
log = {{ .LogDir }}/{{ .Name }}.log
notification = never
should_transfer_files = YES
when_to_transfer_output = ON_EXIT
request_cpus = {{ .Cpus }}
request_memory = {{ .Memory }}
request_disk = {{ .Disk | mul 1024 }}
{{- if .Gpus }}
request_gpus = {{ .Gpus }}
{{- end }}
+WantGlidein = True
periodic_remove = (JobStatus == 2) && (time() - EnteredCurrentStatus > {{ .WalltimeHrs | mul 3600 }})
environment = "CPUS={{ .Cpus }} GPUS={{ .Gpus }} MEMORY={{ .Memory }} DISK={{ .Disk | mul 1024 }} WALLTIME={{ .WalltimeHrs | mul 3600 }}{{ if .Site }} SITE={{ .Site }}{{ end }}"
{{- range .CustomHeader }}
{{ . }}
{{- end }}
queue {{ .Count }}
`)

type condorBackend struct{}

func (condorBackend) name() domain.SchedulerType { return domain.HTCondor }

func (condorBackend) defaultSubmitCommand() string { return "condor_submit" }

func (condorBackend) scriptExtension() string { return ".submit" }

func (condorBackend) writeScript(data scriptData) (string, error) {
	return render(condorTemplate, data)
}
