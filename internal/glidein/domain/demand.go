package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

const (
	Cpus   = "cpus"
	Gpus   = "gpus"
	Memory = "memory"
	Disk   = "disk"

	countKey = "count"
)

// CappedResources are the resources that may carry a max_<resource>_per_job limit.
var CappedResources = []string{Cpus, Gpus, Memory, Disk}

// JobDemand is one shape of glidein wanted by the coordinator, together with how many
// identical glideins of that shape are wanted.
type JobDemand struct {
	Resources map[string]float64
	// Nil means the coordinator did not say, which is treated as one.
	Count *int
}

func NewJobDemand(resources map[string]float64, count *int) *JobDemand {
	if resources == nil {
		resources = map[string]float64{}
	}
	return &JobDemand{Resources: resources, Count: count}
}

// Get returns the quantity of the named resource, zero when the demand doesn't carry it.
func (d *JobDemand) Get(resource string) float64 {
	return d.Resources[resource]
}

func (d *JobDemand) Has(resource string) bool {
	_, ok := d.Resources[resource]
	return ok
}

// RequestedCount is the number of glideins asked for.
func (d *JobDemand) RequestedCount() int {
	if d.Count == nil {
		return 1
	}
	return *d.Count
}

func (d *JobDemand) SetCount(count int) {
	d.Count = &count
}

// ResourceNames returns the names of the resources carried by the demand in ascending order.
func (d *JobDemand) ResourceNames() []string {
	names := make([]string, 0, len(d.Resources))
	for name := range d.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *JobDemand) DeepCopy() *JobDemand {
	resources := make(map[string]float64, len(d.Resources))
	for k, v := range d.Resources {
		resources[k] = v
	}
	copied := &JobDemand{Resources: resources}
	if d.Count != nil {
		copied.SetCount(*d.Count)
	}
	return copied
}

func (d *JobDemand) String() string {
	s := ""
	for i, name := range d.ResourceNames() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", name, d.Resources[name])
	}
	return fmt.Sprintf("{%s count=%d}", s, d.RequestedCount())
}

// MarshalJSON writes the demand in the flat form the coordinator uses.
func (d *JobDemand) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(d.Resources)+1)
	for k, v := range d.Resources {
		flat[k] = v
	}
	if d.Count != nil {
		flat[countKey] = *d.Count
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads a flat object such as {"cpus": 1, "memory": 4000, "count": 3}.
// Fields that aren't numbers are ignored, negative quantities are rejected.
func (d *JobDemand) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WithStack(err)
	}
	demand, err := FromMap(raw)
	if err != nil {
		return err
	}
	*d = *demand
	return nil
}

// FromMap builds a demand from a decoded JSON or YAML object.
func FromMap(raw map[string]interface{}) (*JobDemand, error) {
	demand := NewJobDemand(nil, nil)
	for key, value := range raw {
		quantity, ok := toFloat(value)
		if !ok {
			continue
		}
		if quantity < 0 {
			return nil, errors.Errorf("demand has negative %s: %g", key, quantity)
		}
		if key == countKey {
			if quantity != float64(int(quantity)) {
				return nil, errors.Errorf("demand count %g is not an integer", quantity)
			}
			demand.SetCount(int(quantity))
			continue
		}
		demand.Resources[key] = quantity
	}
	return demand, nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
