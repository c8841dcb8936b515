package state

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/glidein/coordinator"
	"github.com/glideinproject/glidein/internal/glidein/domain"
)

const getStateMethod = "get_state"

type JsonRpcSource struct {
	client *coordinator.Client
	log    *log.Entry
}

func NewJsonRpcSource(client *coordinator.Client, logger *log.Entry) *JsonRpcSource {
	return &JsonRpcSource{client: client, log: logger}
}

func (s *JsonRpcSource) Fetch(ctx context.Context) []*domain.JobDemand {
	var entries []json.RawMessage
	if err := s.client.Call(ctx, getStateMethod, map[string]interface{}{}, &entries); err != nil {
		s.log.WithError(err).Warn("error getting state")
		return nil
	}
	return decodeDemands(entries, s.log)
}
