package stpsim

// rand-topo.go generates random segment topologies, used to exercise
// convergence over shapes nobody sat down and drew.  Generation is
// driven by a named rngstream so a given stream reproduces the same
// topology every time it is replayed.

import (
	"github.com/iti/rngstream"
)

// randInt maps a U(0,1) draw onto {0,...,n-1}.
func randInt(rng *rngstream.RngStream, n int) int {
	idx := int(rng.RandU01() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// CreateRandomTopoDesc builds a description of a connected random
// topology with numSwitches switches of portsPerSwitch ports each, all
// at default weight.  Connectivity is guaranteed by chaining switch i
// to switch i+1 through dedicated ports; extraSegments additional
// segments of two or three random endpoints are then layered on top,
// creating the redundant paths the convergence algorithm exists to
// prune.  portsPerSwitch must be at least 2 to carry the chain.
func CreateRandomTopoDesc(name string, numSwitches, portsPerSwitch, extraSegments int, rng *rngstream.RngStream) *TopoDesc {
	td := CreateTopoDesc(name)

	for id := 0; id < numSwitches; id++ {
		td.AddSwitchDesc(id, portsPerSwitch, 1)
	}

	// chain: switch i port 0 faces switch i+1, which answers on port 1
	for id := 0; id < numSwitches-1; id++ {
		td.AddSegmentDesc("", []Endpoint{
			{Switch: id, Port: 0},
			{Switch: id + 1, Port: 1},
		})
	}

	for n := 0; n < extraSegments; n++ {
		k := 2 + randInt(rng, 2)
		if k > numSwitches {
			k = numSwitches
		}
		eps := make([]Endpoint, 0, k)
		for len(eps) < k {
			ep := Endpoint{
				Switch: randInt(rng, numSwitches),
				Port:   randInt(rng, portsPerSwitch),
			}
			duplicate := false
			for _, existing := range eps {
				if existing.Switch == ep.Switch {
					duplicate = true
					break
				}
			}
			if !duplicate {
				eps = append(eps, ep)
			}
		}
		td.AddSegmentDesc("", eps)
	}
	return td
}
