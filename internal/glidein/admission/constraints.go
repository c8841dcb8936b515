package admission

import (
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

// DefaultMaxIdleJobs applies when max_idle_jobs isn't configured.
const DefaultMaxIdleJobs = 1000

// Constraints are the capacity and policy limits for a single cycle.
type Constraints struct {
	LimitPerSubmit int
	MaxTotalJobs   int
	MaxIdleJobs    int
	// Only resources with a configured max_<resource>_per_job are present.
	MaxPerJob map[string]float64
	GpuOnly   bool
	CpuOnly   bool
}

// Counters are the glidein counts reported by the local scheduler at the start of a cycle.
type Counters struct {
	Running int
	Idle    int
}

// Limit is the number of glideins that may be submitted this cycle. It may be zero or negative.
func (c Constraints) Limit(counters Counters) int {
	return min(
		c.LimitPerSubmit,
		c.MaxTotalJobs-counters.Running,
		max(c.MaxIdleJobs-counters.Idle, 0),
	)
}

// exceededCap returns the first capped resource the demand goes over, if any.
func (c Constraints) exceededCap(demand *domain.JobDemand) (string, bool) {
	for _, resource := range domain.CappedResources {
		limit, capped := c.MaxPerJob[resource]
		if capped && demand.Get(resource) > limit {
			return resource, true
		}
	}
	return "", false
}
