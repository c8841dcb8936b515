package state

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

// DefaultStateFile is where the coordinator's state is copied to when it can only be reached over ssh.
const DefaultStateFile = "~/glidein_state"

// FileSource reads the demand list from a local JSON or YAML file.
type FileSource struct {
	path string
	log  *log.Entry
}

func NewFileSource(path string, logger *log.Entry) *FileSource {
	if path == "" {
		path = DefaultStateFile
	}
	return &FileSource{path: path, log: logger}
}

func (s *FileSource) Fetch(_ context.Context) []*domain.JobDemand {
	entries, err := s.read()
	if err != nil {
		s.log.WithError(err).Warn("error getting ssh state")
		return nil
	}
	return decodeDemands(entries, s.log)
}

func (s *FileSource) read() ([]json.RawMessage, error) {
	path, err := homedir.Expand(s.path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// YAML is converted to JSON first, so both formats decode entry by entry.
	var entries []json.RawMessage
	if err := yaml.Unmarshal(contents, &entries); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return entries, nil
}
