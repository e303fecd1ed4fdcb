package services

import (
	"github.com/won-N-only/egg-talk-server-sub000/models"
)

// GroupSize is the number of participants matched per gender.
const GroupSize = 3

// CompatibilityGraph is a bipartite graph over one queue snapshot whose
// edges are exactly the cross-gender pairs that are not acquainted. It is
// rebuilt fresh for every match attempt; pool membership changes on every
// admission, so incremental maintenance is not worth it.
type CompatibilityGraph struct {
	edges map[string]map[string]bool // male name -> compatible female names
}

// BuildCompatibilityGraph builds the graph from the snapshots and the
// acquaintance sets of every participant in them. Exclusion is symmetric:
// (m, f) has an edge iff f is not in m's set and m is not in f's set.
func BuildCompatibilityGraph(males, females []models.Participant, friends map[string][]string) *CompatibilityGraph {
	sets := make(map[string]map[string]bool, len(friends))
	for name, list := range friends {
		set := make(map[string]bool, len(list))
		for _, friend := range list {
			set[friend] = true
		}
		sets[name] = set
	}

	graph := &CompatibilityGraph{edges: make(map[string]map[string]bool, len(males))}
	for _, m := range males {
		row := make(map[string]bool, len(females))
		for _, f := range females {
			if sets[m.Name][f.Name] || sets[f.Name][m.Name] {
				continue
			}
			row[f.Name] = true
		}
		graph.edges[m.Name] = row
	}
	return graph
}

// Compatible reports whether the pair is unacquainted in both directions.
func (g *CompatibilityGraph) Compatible(male, female string) bool {
	return g.edges[male][female]
}

// combinations lazily enumerates the k-subsets of [0, n) as index slices
// in lexicographic order. Over a queue snapshot that order means
// earliest-joined participants are tried first.
type combinations struct {
	n, k int
	idx  []int
	done bool
}

func newCombinations(n, k int) *combinations {
	c := &combinations{n: n, k: k}
	if k <= 0 || k > n {
		c.done = true
		return c
	}
	c.idx = make([]int, k)
	for i := range c.idx {
		c.idx[i] = i
	}
	return c
}

// next returns the following subset, or false once exhausted.
func (c *combinations) next() ([]int, bool) {
	if c.done {
		return nil, false
	}
	out := make([]int, c.k)
	copy(out, c.idx)

	i := c.k - 1
	for i >= 0 && c.idx[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
	} else {
		c.idx[i]++
		for j := i + 1; j < c.k; j++ {
			c.idx[j] = c.idx[j-1] + 1
		}
	}
	return out, true
}

// MatchedGroup is one fully mutually compatible group, k per gender.
type MatchedGroup struct {
	Males   []models.Participant
	Females []models.Participant
}

// GroupMatcher searches a compatibility graph for one group of GroupSize
// males and GroupSize females with every cross pair compatible.
type GroupMatcher struct {
	GroupSize int
}

func (gm *GroupMatcher) groupSize() int {
	if gm.GroupSize > 0 {
		return gm.GroupSize
	}
	return GroupSize
}

// FindGroup enumerates male k-subsets, and for each of them female
// k-subsets, both in queue insertion order, returning the first candidate
// whose cross pairs are all edges. The FIFO bias falls out of the
// enumeration order; the search short-circuits on the first hit. Returns
// nil when the snapshots are too small or no compatible group exists.
func (gm *GroupMatcher) FindGroup(graph *CompatibilityGraph, males, females []models.Participant) *MatchedGroup {
	k := gm.groupSize()
	if len(males) < k || len(females) < k {
		return nil
	}

	maleSubsets := newCombinations(len(males), k)
	for maleIdx, ok := maleSubsets.next(); ok; maleIdx, ok = maleSubsets.next() {
		femaleSubsets := newCombinations(len(females), k)
		for femaleIdx, ok := femaleSubsets.next(); ok; femaleIdx, ok = femaleSubsets.next() {
			if gm.groupCompatible(graph, males, females, maleIdx, femaleIdx) {
				group := &MatchedGroup{
					Males:   make([]models.Participant, 0, k),
					Females: make([]models.Participant, 0, k),
				}
				for _, i := range maleIdx {
					group.Males = append(group.Males, males[i])
				}
				for _, j := range femaleIdx {
					group.Females = append(group.Females, females[j])
				}
				return group
			}
		}
	}
	return nil
}

func (gm *GroupMatcher) groupCompatible(graph *CompatibilityGraph, males, females []models.Participant, maleIdx, femaleIdx []int) bool {
	for _, i := range maleIdx {
		for _, j := range femaleIdx {
			if !graph.Compatible(males[i].Name, females[j].Name) {
				return false
			}
		}
	}
	return true
}
