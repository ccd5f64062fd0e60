// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cq

import "slices"

// Qualification names a constraint qualification.
type Qualification string

const (
	QLICQ Qualification = "LICQ"
	QMFCQ Qualification = "MFCQ"
	QCRCQ Qualification = "CRCQ"
	QACQ  Qualification = "ACQ"
	QCPLD Qualification = "CPLD"
	QGCQ  Qualification = "GCQ"
)

var fullNames = map[Qualification]string{
	QLICQ: "Linear Independence CQ",
	QMFCQ: "Mangasarian-Fromovitz CQ",
	QCRCQ: "Constant Rank CQ",
	QACQ:  "Abadie CQ",
	QCPLD: "Constant Positive Linear Dependence",
	QGCQ:  "Guignard CQ",
}

// FullName returns the spelled-out name.
func (q Qualification) FullName() string { return fullNames[q] }

// Implication is a directed edge From ⇒ To.
type Implication struct {
	From, To Qualification
}

// Hierarchy is an implication DAG between qualifications.
type Hierarchy struct {
	nodes []Qualification
	edges []Implication
	succ  map[Qualification][]Qualification
}

// NewHierarchy builds a hierarchy from its edges. Nodes are kept in first-seen order.
func NewHierarchy(edges ...Implication) *Hierarchy {
	h := &Hierarchy{succ: make(map[Qualification][]Qualification)}
	for _, e := range edges {
		for _, q := range [...]Qualification{e.From, e.To} {
			if !slices.Contains(h.nodes, q) {
				h.nodes = append(h.nodes, q)
			}
		}
		h.succ[e.From] = append(h.succ[e.From], e.To)
		h.edges = append(h.edges, e)
	}
	return h
}

// MPEC returns the standard hierarchy of MPEC constraint qualifications:
// the main branch LICQ ⇒ MFCQ ⇒ ACQ ⇒ GCQ and the rank branch
// LICQ ⇒ CRCQ ⇒ CPLD ⇒ GCQ.
func MPEC() *Hierarchy {
	return NewHierarchy(
		Implication{QLICQ, QMFCQ},
		Implication{QLICQ, QCRCQ},
		Implication{QMFCQ, QACQ},
		Implication{QCRCQ, QCPLD},
		Implication{QACQ, QGCQ},
		Implication{QCPLD, QGCQ},
	)
}

// Nodes returns the qualifications in first-seen order.
func (h *Hierarchy) Nodes() []Qualification { return slices.Clone(h.nodes) }

// Edges returns the direct implications in insertion order.
func (h *Hierarchy) Edges() []Implication { return slices.Clone(h.edges) }

// Implies reports whether a ⇒ b follows by transitivity. Every
// qualification implies itself.
func (h *Hierarchy) Implies(a, b Qualification) bool {
	seen := map[Qualification]bool{a: true}
	stack := []Qualification{a}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if q == b {
			return true
		}
		for _, n := range h.succ[q] {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}

// Layers groups nodes by the length of the longest implication chain
// reaching them, strongest first. It returns nil when the graph has a cycle.
func (h *Hierarchy) Layers() [][]Qualification {
	indeg := make(map[Qualification]int, len(h.nodes))
	for _, e := range h.edges {
		indeg[e.To]++
	}
	depth := make(map[Qualification]int, len(h.nodes))
	var queue []Qualification
	for _, q := range h.nodes {
		if indeg[q] == 0 {
			queue = append(queue, q)
		}
	}
	visited := 0
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		visited++
		for _, n := range h.succ[q] {
			depth[n] = max(depth[n], depth[q]+1)
			if indeg[n]--; indeg[n] == 0 {
				queue = append(queue, n)
			}
		}
	}
	if visited != len(h.nodes) {
		return nil
	}

	var layers [][]Qualification
	for _, q := range h.nodes {
		d := depth[q]
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], q)
	}
	return layers
}
