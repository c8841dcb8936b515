package priority

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

type slot struct {
	// Higher rank means higher priority; resources missing from the order have rank 0.
	rank int
	sign float64
}

type rankedDemand struct {
	demand *domain.JobDemand
	vector []float64
}

// Rank returns the demands sorted by the given order. The input slice is not modified and
// demands with equal priority vectors keep their relative input order.
//
// Each demand's priority vector is made of its own resource quantities, taken from the
// highest priority resource to the lowest, with resources absent from the order last
// in name order. Reversed resources contribute their negated quantity.
func Rank(demands []*domain.JobDemand, order Order) []*domain.JobDemand {
	slots := make(map[string]slot, len(order.Keys))
	for i, key := range order.Keys {
		s := slot{rank: len(order.Keys) - i, sign: 1}
		if key.Reversed {
			s.sign = -1
		}
		slots[key.Resource] = s
	}

	ranked := make([]rankedDemand, len(demands))
	for i, demand := range demands {
		ranked[i] = rankedDemand{demand: demand, vector: priorityVector(demand, slots)}
	}

	slices.SortStableFunc(ranked, func(a, b rankedDemand) int {
		c := compareVectors(a.vector, b.vector)
		if order.Descending {
			return -c
		}
		return c
	})

	result := make([]*domain.JobDemand, len(ranked))
	for i, r := range ranked {
		result[i] = r.demand
	}
	return result
}

func priorityVector(demand *domain.JobDemand, slots map[string]slot) []float64 {
	names := demand.ResourceNames()
	sort.SliceStable(names, func(i, j int) bool {
		return slots[names[i]].rank > slots[names[j]].rank
	})
	vector := make([]float64, len(names))
	for i, name := range names {
		s, listed := slots[name]
		if !listed {
			s.sign = 1
		}
		vector[i] = demand.Get(name) * s.sign
	}
	return vector
}

// compareVectors compares lexicographically; a strict prefix sorts before the longer vector.
func compareVectors(a, b []float64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
