package configuration

import (
	"github.com/hashicorp/go-multierror"

	"github.com/glideinproject/glidein/internal/common/config"
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

func ValidateConfiguration(c Configuration) error {
	var result *multierror.Error
	if err := config.ValidateStruct(config.NewValidator(), c); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Cluster.Scheduler != "" {
		if _, err := domain.ParseSchedulerType(string(c.Cluster.Scheduler)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
