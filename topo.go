package stpsim

// topo.go contains the Network struct, which owns the collection of
// switches, the neighbor-per-port relation between them, and the
// orchestration of one convergence round across the whole topology.

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Sentinel errors for topology construction and mutation.
var (
	// ErrDupSwitch indicates an attempt to add a switch whose id is already present.
	ErrDupSwitch = errors.New("stpsim: duplicate switch id")

	// ErrUnknownSwitch indicates a connect or remove operation referenced an absent switch id.
	ErrUnknownSwitch = errors.New("stpsim: unknown switch id")

	// ErrBadPort indicates a connect operation referenced a port a switch does not have.
	ErrBadPort = errors.New("stpsim: port out of range")
)

// An Endpoint names one attachment point of a segment: a switch and
// one of its ports.
type Endpoint struct {
	Switch int
	Port   int
}

// The Network struct is the run-time representation of the switch
// topology.  It owns every Switch and is the sole mutator of their
// neighbor relations.  Switches are kept in insertion order, and that
// order is part of the public contract: AdvanceRound updates switches
// in it, mutating in place, so a switch later in the order observes
// the post-update state of any neighbor earlier in the order within
// the same round.
type Network struct {
	name     string
	switches map[int]*Switch // switch id -> run-time switch state
	order    []int           // switch ids, in insertion order
}

// CreateEmptyNetwork is a constructor for a network with no switches.
func CreateEmptyNetwork(name string) *Network {
	net := new(Network)
	net.name = name
	net.switches = make(map[int]*Switch)
	net.order = []int{}
	return net
}

// CreateNetwork is a constructor that populates the network with
// switches 0..len(portCounts)-1, giving switch i portCounts[i] ports
// and the default weight of 1.
func CreateNetwork(name string, portCounts []int) *Network {
	net := CreateEmptyNetwork(name)
	for id, numPorts := range portCounts {
		// ids generated here are fresh, AddSwitch cannot fail
		_ = net.AddSwitch(id, numPorts, 1)
	}
	return net
}

// Name returns the name the network was created with.
func (net *Network) Name() string {
	return net.name
}

// NumSwitches returns the number of switches currently in the network.
func (net *Network) NumSwitches() int {
	return len(net.order)
}

// SwitchIDs returns the ids of the network's switches in insertion
// order, the order AdvanceRound updates them in.
func (net *Network) SwitchIDs() []int {
	ids := make([]int, len(net.order))
	copy(ids, net.order)
	return ids
}

// SwitchByID looks up a switch by id, reporting whether it is present.
func (net *Network) SwitchByID(id int) (*Switch, bool) {
	swtch, present := net.switches[id]
	return swtch, present
}

// AddSwitch creates a switch with the given id, port count, and
// weight, in its initial self-rooted state, and appends it to the
// update order.  The id must not already be present.
func (net *Network) AddSwitch(id, numPorts, weight int) error {
	_, present := net.switches[id]
	if present {
		return fmt.Errorf("%w: %d", ErrDupSwitch, id)
	}
	net.switches[id] = createSwitch(id, numPorts, weight)
	net.order = append(net.order, id)
	return nil
}

// Connect wires a group of two or more endpoints into one shared
// segment: every endpoint's switch learns every other endpoint's id on
// its own named port, so k endpoints produce k*(k-1) directed neighbor
// entries.  A group smaller than two describes no connection and is a
// no-op.  Nothing is modified if any endpoint names an absent switch
// or a port it does not have.
func (net *Network) Connect(segment []Endpoint) error {
	for _, ep := range segment {
		swtch, present := net.switches[ep.Switch]
		if !present {
			return fmt.Errorf("%w: %d", ErrUnknownSwitch, ep.Switch)
		}
		if ep.Port < 0 || ep.Port >= swtch.numPorts {
			return fmt.Errorf("%w: switch %d has no port %d", ErrBadPort, ep.Switch, ep.Port)
		}
	}

	// every ordered pair of distinct endpoints
	for _, ep := range segment {
		for _, other := range segment {
			if ep.Switch == other.Switch && ep.Port == other.Port {
				continue
			}
			net.switches[ep.Switch].addNeighbor(other.Switch, ep.Port)
		}
	}
	return nil
}

// ConnectAll applies Connect to each segment in turn, stopping at the
// first failure.
func (net *Network) ConnectAll(segments [][]Endpoint) error {
	for _, segment := range segments {
		if err := net.Connect(segment); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSwitch deletes the named switch and purges its id from every
// remaining switch's neighbor lists.  Remaining switches' belief state
// is not otherwise touched; they notice the loss themselves over
// subsequent rounds.
func (net *Network) RemoveSwitch(id int) error {
	_, present := net.switches[id]
	if !present {
		return fmt.Errorf("%w: %d", ErrUnknownSwitch, id)
	}
	delete(net.switches, id)

	idx := slices.Index(net.order, id)
	net.order = slices.Delete(net.order, idx, idx+1)

	for _, other := range net.order {
		net.switches[other].rmNeighbor(id)
	}
	return nil
}

// AdvanceRound runs one convergence round: every switch executes its
// update exactly once, in insertion order.  This is the single unit of
// simulated time; a round is atomic from the caller's point of view.
func (net *Network) AdvanceRound() {
	for _, id := range net.order {
		net.switches[id].advanceRound(net)
	}
}

// RunRounds advances the network through n consecutive rounds.
func (net *Network) RunRounds(n int) {
	for i := 0; i < n; i++ {
		net.AdvanceRound()
	}
}

// Snapshot captures the externally visible state of every switch, in
// the network's update order.
func (net *Network) Snapshot() []SwitchSnapshot {
	snaps := make([]SwitchSnapshot, 0, len(net.order))
	for _, id := range net.order {
		snaps = append(snaps, net.switches[id].Snapshot())
	}
	return snaps
}

// String renders one status line per switch, in update order.
func (net *Network) String() string {
	lines := make([]string, 0, len(net.order))
	for _, id := range net.order {
		lines = append(lines, net.switches[id].String())
	}
	return strings.Join(lines, "\n")
}
