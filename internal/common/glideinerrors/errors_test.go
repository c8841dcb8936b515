package glideinerrors

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":                                {nil, 0},
		"ErrSubmission":                      {&ErrSubmission{Scheduler: "slurm", Count: 1, Err: errors.New("exit 1")}, 3},
		"ErrUnsupportedBackend":              {&ErrUnsupportedBackend{Scheduler: "foo"}, 2},
		"ErrMissingConfig":                   {&ErrMissingConfig{Key: "cluster.running_cmd"}, 2},
		"ErrInvalidArgument":                 {&ErrInvalidArgument{Name: "prioritize_jobs", Value: "-"}, 2},
		"pkg.Error => ErrSubmission":         {errors.WithMessage(&ErrSubmission{}, "foo"), 3},
		"pkg.Error => ErrUnsupportedBackend": {errors.Wrap(&ErrUnsupportedBackend{}, "foo"), 2},
		"multierror => ErrMissingConfig":     {multierror.Append(nil, &ErrMissingConfig{Key: "a"}), 2},
		"pkg.Error":                          {errors.New("foo"), 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(nil))
	assert.True(t, IsRecoverable(&ErrTransientPoll{Source: "running count", Err: errors.New("boom")}))
	assert.True(t, IsRecoverable(errors.WithMessage(&ErrTransientPoll{Source: "state"}, "cycle 3")))
	assert.False(t, IsRecoverable(&ErrSubmission{Err: errors.New("boom")}))
	assert.False(t, IsRecoverable(errors.New("boom")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `scheduler "foo" not supported`, (&ErrUnsupportedBackend{Scheduler: "foo"}).Error())
	assert.Equal(t, `missing required configuration "cluster.running_cmd"`, (&ErrMissingConfig{Key: "cluster.running_cmd"}).Error())
	assert.Equal(t,
		`value "--gpus" is invalid for field "prioritize_jobs"; bad prefix`,
		(&ErrInvalidArgument{Name: "prioritize_jobs", Value: "--gpus", Message: "bad prefix"}).Error())
	assert.Equal(t, "failed to launch 2 glidein(s) on pbs: exit status 1",
		(&ErrSubmission{Scheduler: "pbs", Count: 2, Err: errors.New("exit status 1")}).Error())
}
