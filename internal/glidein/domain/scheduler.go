package domain

import (
	"strings"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
)

// SchedulerType identifies the local batch system glideins are submitted to.
type SchedulerType string

const (
	HTCondor SchedulerType = "htcondor"
	PBS      SchedulerType = "pbs"
	Slurm    SchedulerType = "slurm"
	UGE      SchedulerType = "uge"
	LSF      SchedulerType = "lsf"
)

var SupportedSchedulers = []SchedulerType{HTCondor, PBS, Slurm, UGE, LSF}

// ParseSchedulerType is case-insensitive.
func ParseSchedulerType(s string) (SchedulerType, error) {
	candidate := SchedulerType(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range SupportedSchedulers {
		if candidate == supported {
			return candidate, nil
		}
	}
	return "", &glideinerrors.ErrUnsupportedBackend{Scheduler: s}
}
