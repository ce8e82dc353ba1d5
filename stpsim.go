// Package stpsim simulates a simplified spanning-tree style
// convergence algorithm over a multi-port switch topology.  Switches
// connected through numbered ports (possibly into shared multi-way
// segments) iteratively exchange hello advertisements; each locally
// decides who it believes the network root is, how far away it is,
// and which of its ports should forward, so that redundant paths are
// cut down toward a loop-free tree.
//
// Rounds are discrete logical steps, not wall-clock time.  Within a
// round switches update in place, in the order they were added to the
// network, each reading its neighbors' current state at the moment it
// looks; that fixed order is part of the package's contract, and runs
// are fully deterministic given the same construction sequence.
package stpsim
