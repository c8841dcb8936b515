package priority

import (
	"fmt"
	"strings"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
)

const reversedPrefix = "-"

// DefaultKeys is used when no prioritize_jobs is configured: gpu jobs first, then high memory jobs.
var DefaultKeys = []string{"gpus", "memory"}

// Key is one slot of the priority order.
type Key struct {
	Resource string
	// Reversed flips the comparison for this resource only.
	Reversed bool
}

func (k Key) String() string {
	if k.Reversed {
		return reversedPrefix + k.Resource
	}
	return k.Resource
}

// Order is the priority demands are ranked by. Keys listed earlier take precedence.
type Order struct {
	Keys []Key
	// Descending puts demands with higher priority vectors first.
	Descending bool
}

// ParseOrder builds a descending order from keys like "gpus" or "-memory".
func ParseOrder(keys []string) (Order, error) {
	order := Order{Keys: make([]Key, 0, len(keys)), Descending: true}
	seen := make(map[string]bool, len(keys))
	for _, raw := range keys {
		k := strings.TrimSpace(raw)
		key := Key{Resource: k}
		if strings.HasPrefix(k, reversedPrefix) {
			key = Key{Resource: strings.TrimPrefix(k, reversedPrefix), Reversed: true}
		}
		if key.Resource == "" || strings.HasPrefix(key.Resource, reversedPrefix) {
			return Order{}, &glideinerrors.ErrInvalidArgument{
				Name:    "prioritize_jobs",
				Value:   raw,
				Message: "expected a resource name optionally prefixed by a single -",
			}
		}
		if seen[key.Resource] {
			return Order{}, &glideinerrors.ErrInvalidArgument{
				Name:    "prioritize_jobs",
				Value:   raw,
				Message: fmt.Sprintf("resource %s is listed more than once", key.Resource),
			}
		}
		seen[key.Resource] = true
		order.Keys = append(order.Keys, key)
	}
	return order, nil
}

// MustParseOrder is ParseOrder for orders known to be valid.
func MustParseOrder(keys ...string) Order {
	order, err := ParseOrder(keys)
	if err != nil {
		panic(err)
	}
	return order
}

func DefaultOrder() Order {
	return MustParseOrder(DefaultKeys...)
}

func (o Order) String() string {
	names := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		names[i] = k.String()
	}
	direction := "descending"
	if !o.Descending {
		direction = "ascending"
	}
	return fmt.Sprintf("[%s] %s", strings.Join(names, ", "), direction)
}
