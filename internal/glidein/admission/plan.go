package admission

import (
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

type SkipReason string

const (
	SkippedCpuDemand     SkipReason = "gpu_only"
	SkippedGpuDemand     SkipReason = "cpu_only"
	SkippedOverResources SkipReason = "over_resource_limit"
	SkippedZeroCount     SkipReason = "zero_count"
)

type Submission struct {
	Demand *domain.JobDemand
	Count  int
}

// Plan is what was admitted during one cycle.
type Plan struct {
	// Limit computed at the start of the cycle.
	Limit       int
	Submissions []Submission
	Admitted    int
	Skipped     map[SkipReason]int
	// Demands left for the next cycle once the limit was exhausted.
	Deferred int
}

func newPlan(limit int) *Plan {
	return &Plan{
		Limit:       limit,
		Submissions: []Submission{},
		Skipped:     map[SkipReason]int{},
	}
}

func (p *Plan) skip(reason SkipReason) {
	p.Skipped[reason]++
}

func (p *Plan) add(demand *domain.JobDemand, count int) {
	p.Submissions = append(p.Submissions, Submission{Demand: demand, Count: count})
	p.Admitted += count
}
