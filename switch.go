package stpsim

// switch.go holds the run-time representation of a single switch:
// its port table, its current belief about the network root, and
// the per-round hello exchange that drives convergence.

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// PortNone is the sentinel value of a switch's root port when the
// switch believes itself to be the root (no port leads closer to it).
const PortNone int = -1

// A helloMsg is the advertisement one switch observes from another
// during a round: the sender's current root belief, its distance to
// that root, and the sender's own id.  When gathered by a receiving
// switch it is tagged with the port it arrived on; the port field is
// PortNone when the tag is irrelevant.
type helloMsg struct {
	rootID int // id of the switch the sender believes is root
	dist   int // sender's distance to that root
	sender int // id of the sending switch
	port   int // receiver's port the message arrived on
}

// cmpHello orders two hello messages lexicographically on
// (rootID, dist, sender, port).  The return follows the usual
// -1 / 0 / +1 convention.
func cmpHello(a, b helloMsg) int {
	if c := cmpInts(a.rootID, b.rootID); c != 0 {
		return c
	}
	if c := cmpInts(a.dist, b.dist); c != 0 {
		return c
	}
	if c := cmpInts(a.sender, b.sender); c != 0 {
		return c
	}
	return cmpInts(a.port, b.port)
}

// cmpHelloNoPort orders two hello messages on (rootID, dist, sender),
// ignoring the arrival port.  Used when deciding per-port forwarding,
// where the port tag is the same for every candidate.
func cmpHelloNoPort(a, b helloMsg) int {
	if c := cmpInts(a.rootID, b.rootID); c != 0 {
		return c
	}
	if c := cmpInts(a.dist, b.dist); c != 0 {
		return c
	}
	return cmpInts(a.sender, b.sender)
}

func cmpInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// minHello returns the smallest message in a non-empty list under
// cmpHello, taking the earliest gathered one on a full tie.
func minHello(msgs []helloMsg) helloMsg {
	best := msgs[0]
	for _, msg := range msgs[1:] {
		if cmpHello(msg, best) < 0 {
			best = msg
		}
	}
	return best
}

// The Switch struct holds the run-time state of one switch in the
// simulated network.  A switch is created knowing only itself: it is
// its own root at distance zero, with every port forwarding.  Rounds
// of hello exchange (see advanceRound) revise that belief.
type Switch struct {
	id       int     // unique integer id, fixed for the switch's lifetime
	numPorts int     // number of ports, fixed at creation
	weight   int     // additive cost applied to every hop outward from this switch
	nbrs     [][]int // per-port list of neighbor switch ids, a port may serve a shared segment
	fwd      []bool  // per-port state, true when the port is forwarding

	// hello parameters: the switch's current belief
	rootID       int // id of the switch believed to be the network root
	distFromRoot int // believed distance to that root
	upstream     int // id of the neighbor closest to the root
	rootPort     int // port leading toward the root, PortNone when self-rooted
}

// createSwitch is a constructor.  The new switch starts self-rooted
// with all of its ports forwarding.
func createSwitch(id, numPorts, weight int) *Switch {
	swtch := new(Switch)
	swtch.id = id
	swtch.numPorts = numPorts
	swtch.weight = weight
	swtch.nbrs = make([][]int, numPorts)
	for port := 0; port < numPorts; port++ {
		swtch.nbrs[port] = []int{}
	}
	swtch.fwd = make([]bool, numPorts)
	for port := 0; port < numPorts; port++ {
		swtch.fwd[port] = true
	}
	swtch.resetHelloParams()
	return swtch
}

// ID returns the switch's unique id.
func (swtch *Switch) ID() int {
	return swtch.id
}

// NumPorts returns the number of ports the switch was created with.
func (swtch *Switch) NumPorts() int {
	return swtch.numPorts
}

// Neighbors returns a copy of the ids reachable through the named port.
func (swtch *Switch) Neighbors(port int) []int {
	nbrs := make([]int, len(swtch.nbrs[port]))
	copy(nbrs, swtch.nbrs[port])
	return nbrs
}

// addNeighbor records that the switch with id nbrID is reachable
// through the named port.  The per-port neighbor list is a set;
// recording the same neighbor twice on a port has no effect.
func (swtch *Switch) addNeighbor(nbrID, port int) {
	if !slices.Contains(swtch.nbrs[port], nbrID) {
		swtch.nbrs[port] = append(swtch.nbrs[port], nbrID)
	}
}

// rmNeighbor removes every reference to nbrID from the switch's
// neighbor lists.  A port whose list becomes empty stays an existing,
// empty port.
func (swtch *Switch) rmNeighbor(nbrID int) {
	for port := 0; port < swtch.numPorts; port++ {
		idx := slices.Index(swtch.nbrs[port], nbrID)
		if idx >= 0 {
			swtch.nbrs[port] = slices.Delete(swtch.nbrs[port], idx, idx+1)
		}
	}
}

// hello is a pure read of the switch's current belief, exactly what a
// neighbor observes when it queries this switch during its own update.
func (swtch *Switch) hello() helloMsg {
	return helloMsg{rootID: swtch.rootID, dist: swtch.distFromRoot, sender: swtch.id, port: PortNone}
}

// advanceRound runs one round of the convergence algorithm for this
// switch.  Neighbor state is read live from the owning network, so a
// neighbor that updated earlier in the same round is observed in its
// post-update state.  The gathered message list feeds both the belief
// update and the port-state decision, in that order.
func (swtch *Switch) advanceRound(net *Network) {
	msgs := swtch.gatherHellos(net)
	swtch.updateHelloParams(msgs)
	swtch.updatePortsStatus(msgs)
}

// gatherHellos queries every neighbor on every port for its current
// hello message and tags each with the arrival port.
func (swtch *Switch) gatherHellos(net *Network) []helloMsg {
	msgs := make([]helloMsg, 0)
	for port := 0; port < swtch.numPorts; port++ {
		for _, nbrID := range swtch.nbrs[port] {
			nbr, present := net.switches[nbrID]
			if !present {
				continue
			}
			msg := nbr.hello()
			msg.port = port
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// resetHelloParams returns the switch to its self-rooted state.
func (swtch *Switch) resetHelloParams() {
	swtch.setHelloParams(swtch.id, 0, swtch.id, PortNone)
}

func (swtch *Switch) setHelloParams(rootID, distFromRoot, upstream, rootPort int) {
	swtch.rootID = rootID
	swtch.distFromRoot = distFromRoot
	swtch.upstream = upstream
	swtch.rootPort = rootPort
}

// updateHelloParams revises the switch's root belief from the gathered
// messages.  With no messages at all the switch is isolated and resets
// to self-rooted.  Otherwise the best gathered message is compared
// against a reconstruction of the message the switch must have relied
// on last round; if the best on offer now is worse than that, the old
// advertisement is no longer reproducible and the switch loses
// confidence, resetting to self-rooted rather than clinging to stale
// state.  Otherwise the best message is adopted.
func (swtch *Switch) updateHelloParams(msgs []helloMsg) {
	if len(msgs) == 0 {
		swtch.resetHelloParams()
		return
	}

	lastMin := helloMsg{
		rootID: swtch.rootID,
		dist:   swtch.distFromRoot - swtch.weight,
		sender: swtch.upstream,
		port:   swtch.rootPort,
	}
	minMsg := minHello(msgs)
	if cmpHello(minMsg, lastMin) > 0 {
		swtch.resetHelloParams()
		return
	}
	swtch.setHelloParams(minMsg.rootID, minMsg.dist+swtch.weight, minMsg.sender, minMsg.port)
}

// updatePortsStatus decides the forwarding state of every port, using
// the message list gathered before the belief update together with the
// just-updated belief.  A port forwards when it is the root port, or
// when this switch is the best (lowest) advertiser on that port's
// segment.  If exactly one port ends up forwarding it is forced to
// blocking as well; the rule applies even to the root port.
func (swtch *Switch) updatePortsStatus(msgs []helloMsg) {
	for port := 0; port < swtch.numPorts; port++ {
		swtch.fwd[port] = swtch.portShouldForward(port, msgs)
	}

	live := 0
	last := PortNone
	for port, forwarding := range swtch.fwd {
		if forwarding {
			live += 1
			last = port
		}
	}
	if live == 1 {
		swtch.fwd[last] = false
	}
}

// portShouldForward applies the two forwarding criteria to one port.
// A port with no gathered messages is trivially won by the switch's
// own advertisement and stays forwarding.
func (swtch *Switch) portShouldForward(port int, msgs []helloMsg) bool {
	if port == swtch.rootPort {
		return true
	}

	best := swtch.hello()
	for _, msg := range msgs {
		if msg.port != port {
			continue
		}
		if cmpHelloNoPort(msg, best) < 0 {
			best = msg
		}
	}
	return best.sender == swtch.id
}

// Snapshot returns a copy of the switch's externally visible state.
func (swtch *Switch) Snapshot() SwitchSnapshot {
	fwd := make([]bool, swtch.numPorts)
	copy(fwd, swtch.fwd)
	return SwitchSnapshot{
		ID:           swtch.id,
		RootID:       swtch.rootID,
		DistFromRoot: swtch.distFromRoot,
		RootPort:     swtch.rootPort,
		Upstream:     swtch.upstream,
		Weight:       swtch.weight,
		Forwarding:   fwd,
	}
}

// String renders the switch's status as a single line: identity,
// current root belief, and the full per-port forwarding vector.
func (swtch *Switch) String() string {
	return fmt.Sprintf("Switch %d: root %d dist %d rootPort %d upstream %d weight %d ports %v",
		swtch.id, swtch.rootID, swtch.distFromRoot, swtch.rootPort, swtch.upstream, swtch.weight, swtch.fwd)
}
