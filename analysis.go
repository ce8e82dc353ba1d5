package stpsim

// analysis.go converts the state of a Network into the data structures
// used by a graph package with built-in connectivity and path
// discovery algorithms.  The forwarding relation is inspected for
// residual loops and partitions, and belief distances can be checked
// against true shortest paths where each hop costs the weight of the
// switch being entered.

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type intPair struct {
	i, j int
}

// forwardingPairs returns the set of links that are forwarding end to
// end: switch pairs (a,b) where a holds a forwarding port listing b
// and b holds a forwarding port listing a.  Each pair is reported
// once, with i < j.
func (net *Network) forwardingPairs() []intPair {
	seen := make(map[intPair]bool)
	pairs := []intPair{}

	for _, id := range net.order {
		swtch := net.switches[id]
		for port := 0; port < swtch.numPorts; port++ {
			if !swtch.fwd[port] {
				continue
			}
			for _, nbrID := range swtch.nbrs[port] {
				if nbrID == id {
					continue
				}
				nbr, present := net.switches[nbrID]
				if !present || !nbr.forwardsToward(id) {
					continue
				}
				pair := intPair{i: id, j: nbrID}
				if nbrID < id {
					pair = intPair{i: nbrID, j: id}
				}
				if !seen[pair] {
					seen[pair] = true
					pairs = append(pairs, pair)
				}
			}
		}
	}
	return pairs
}

// forwardsToward reports whether the switch holds any forwarding port
// whose segment includes the named neighbor.
func (swtch *Switch) forwardsToward(nbrID int) bool {
	for port := 0; port < swtch.numPorts; port++ {
		if !swtch.fwd[port] {
			continue
		}
		for _, id := range swtch.nbrs[port] {
			if id == nbrID {
				return true
			}
		}
	}
	return false
}

// BuildForwardingGraph returns a graph representation of the network's
// current forwarding relation: one node per switch, one edge per link
// forwarding at both ends.
func BuildForwardingGraph(net *Network) *simple.UndirectedGraph {
	fwdGraph := simple.NewUndirectedGraph()
	for _, id := range net.order {
		fwdGraph.AddNode(simple.Node(id))
	}
	for _, pair := range net.forwardingPairs() {
		fwdGraph.SetEdge(simple.Edge{F: simple.Node(pair.i), T: simple.Node(pair.j)})
	}
	return fwdGraph
}

// ForwardingComponents returns the connected components of the
// forwarding graph, each component a list of switch ids.
func ForwardingComponents(net *Network) [][]int {
	fwdGraph := BuildForwardingGraph(net)
	components := topo.ConnectedComponents(fwdGraph)

	rtn := make([][]int, 0, len(components))
	for _, component := range components {
		ids := make([]int, 0, len(component))
		for _, node := range component {
			ids = append(ids, int(node.ID()))
		}
		rtn = append(rtn, ids)
	}
	return rtn
}

// ForwardingLoopFree reports whether the forwarding relation is free
// of cycles.  An undirected graph is a forest exactly when its edge
// count equals its node count minus its component count.
func ForwardingLoopFree(net *Network) bool {
	edges := len(net.forwardingPairs())
	components := len(ForwardingComponents(net))
	return edges == net.NumSwitches()-components
}

// buildBeliefGraph expresses the full neighbor relation (forwarding or
// not) as a weighted directed graph in which the edge into a switch
// costs that switch's weight, mirroring how a hello message's distance
// grows by the receiver's weight at each hop.
func buildBeliefGraph(net *Network) graph.Graph {
	beliefGraph := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for _, id := range net.order {
		beliefGraph.AddNode(simple.Node(id))
	}
	for _, id := range net.order {
		swtch := net.switches[id]
		for port := 0; port < swtch.numPorts; port++ {
			for _, nbrID := range swtch.nbrs[port] {
				if nbrID == id {
					continue
				}
				if _, present := net.switches[nbrID]; !present {
					continue
				}
				// traversing into nbrID costs nbrID's weight
				weightedEdge := simple.WeightedEdge{
					F: simple.Node(id),
					T: simple.Node(nbrID),
					W: float64(net.switches[nbrID].weight),
				}
				beliefGraph.SetWeightedEdge(weightedEdge)
			}
		}
	}
	return beliefGraph
}

// ShortestDistances computes, for every switch reachable from the
// named root, the true minimum distance under the per-switch weight
// model.  A converged network should hold beliefs matching these.
// Unreachable switches are absent from the returned map.
func ShortestDistances(net *Network, rootID int) map[int]int {
	if _, present := net.switches[rootID]; !present {
		return map[int]int{}
	}
	beliefGraph := buildBeliefGraph(net)
	spTree := path.DijkstraFrom(simple.Node(rootID), beliefGraph)

	dists := make(map[int]int)
	for _, id := range net.order {
		_, weight := spTree.To(int64(id))
		if math.IsInf(weight, 1) {
			continue
		}
		dists[id] = int(weight)
	}
	return dists
}
