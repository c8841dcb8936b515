package gateway

import (
	"bytes"
	"math"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

const defaultWalltimeHrs = 14

// scriptData is what the submit script templates are rendered with.
// Memory and disk are in MB.
type scriptData struct {
	Name         string
	Count        int
	Cpus         int
	Gpus         int
	Memory       int
	Disk         int
	WalltimeHrs  int
	Queue        string
	Site         string
	Executable   string
	LogDir       string
	CustomHeader []string
}

func newScriptData(config Config, demand *domain.JobDemand, count int) scriptData {
	cpus := quantity(demand, domain.Cpus)
	if cpus < 1 {
		cpus = 1
	}
	return scriptData{
		Name:         newName(),
		Count:        count,
		Cpus:         cpus,
		Gpus:         quantity(demand, domain.Gpus),
		Memory:       quantity(demand, domain.Memory),
		Disk:         quantity(demand, domain.Disk),
		WalltimeHrs:  config.WalltimeHrs,
		Queue:        config.Queue,
		Site:         config.Site,
		Executable:   config.Executable,
		LogDir:       config.LogDir,
		CustomHeader: config.CustomHeader,
	}
}

// Fractional quantities are rounded up so a glidein never gets less than was asked for.
func quantity(demand *domain.JobDemand, resource string) int {
	return int(math.Ceil(demand.Get(resource)))
}

// The environment every glidein is started with, whatever the scheduler.
const environmentTemplate = `{{ define "environment" -}}
export CPUS={{ .Cpus }}
export GPUS={{ .Gpus }}
export MEMORY={{ .Memory }}
export DISK={{ .Disk | mul 1024 }}
export WALLTIME={{ .WalltimeHrs | mul 3600 }}
{{- if .Site }}
export SITE={{ .Site | quote }}
{{- end }}
{{- end }}`

func parseScriptTemplate(name string, text string) *template.Template {
	return template.Must(template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Parse(environmentTemplate + text))
}

func render(t *template.Template, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "rendering %s submit script", t.Name())
	}
	return buf.String(), nil
}
