package state

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

// Source supplies the glideins currently wanted by the coordinator.
// A nil result means there is no state to act on; failures are logged, not returned.
type Source interface {
	Fetch(ctx context.Context) []*domain.JobDemand
}

// decodeDemands decodes each entry on its own. Entries that aren't valid demands are logged and
// dropped; the rest are kept in their original order. Returns nil when nothing valid remains.
func decodeDemands(entries []json.RawMessage, logger *log.Entry) []*domain.JobDemand {
	demands := make([]*domain.JobDemand, 0, len(entries))
	for i, entry := range entries {
		demand, err := decodeDemand(entry)
		if err != nil {
			logger.WithError(err).Warnf("dropping demand %d: %s", i, entry)
			continue
		}
		if demand != nil {
			demands = append(demands, demand)
		}
	}
	if len(demands) == 0 {
		return nil
	}
	return demands
}

func decodeDemand(entry json.RawMessage) (*domain.JobDemand, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(entry, &raw); err != nil {
		return nil, errors.Wrap(err, "demand is not an object")
	}
	if raw == nil {
		return nil, nil
	}
	return domain.FromMap(raw)
}
