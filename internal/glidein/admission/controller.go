package admission

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

// Submitter launches the glideins described by a demand. The demand's count is the number
// of glideins to launch.
type Submitter interface {
	Submit(ctx context.Context, demand *domain.JobDemand) error
}

// UnitConverter rewrites a demand's quantities into the local scheduler's units.
type UnitConverter func(demand *domain.JobDemand)

func NoConversion(*domain.JobDemand) {}

type Controller struct {
	submitter Submitter
	convert   UnitConverter
	log       *log.Entry
}

func NewController(submitter Submitter, convert UnitConverter, logger *log.Entry) *Controller {
	if convert == nil {
		convert = NoConversion
	}
	return &Controller{submitter: submitter, convert: convert, log: logger}
}

// Admit walks the ranked demands once, submitting as many glideins as the constraints allow.
// Demands filtered out by policy never consume the limit. A submission error is returned
// immediately together with the plan admitted so far.
func (c *Controller) Admit(ctx context.Context, ranked []*domain.JobDemand, counters Counters, constraints Constraints) (*Plan, error) {
	limit := constraints.Limit(counters)
	plan := newPlan(limit)

	for i, demand := range ranked {
		if limit <= 0 {
			c.log.Info("reached limit")
			plan.Deferred = len(ranked) - i
			break
		}
		if constraints.GpuOnly && demand.Get(domain.Gpus) == 0 {
			plan.skip(SkippedCpuDemand)
			continue
		}
		if constraints.CpuOnly && demand.Get(domain.Gpus) != 0 {
			plan.skip(SkippedGpuDemand)
			continue
		}

		c.convert(demand)
		if resource, exceeded := constraints.exceededCap(demand); exceeded {
			c.log.Debugf("skipping %s: %s over max_%s_per_job", demand, resource, resource)
			plan.skip(SkippedOverResources)
			continue
		}

		count := demand.RequestedCount()
		if count <= 0 {
			plan.skip(SkippedZeroCount)
			continue
		}
		if count > limit {
			count = limit
			demand.SetCount(count)
		}

		if err := c.submitter.Submit(ctx, demand); err != nil {
			return plan, errors.WithMessagef(err, "submitting %s", demand)
		}
		limit -= count
		plan.add(demand, count)
	}
	return plan, nil
}
