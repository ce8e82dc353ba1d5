package stpsim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stpsim "github.com/sholomdb/stp-simulation"
)

// snapshotOf fetches the snapshot of one switch, failing the test if
// the switch is absent.
func snapshotOf(t *testing.T, net *stpsim.Network, id int) stpsim.SwitchSnapshot {
	t.Helper()
	swtch, present := net.SwitchByID(id)
	require.True(t, present, "switch %d missing from network", id)
	return swtch.Snapshot()
}

// TestInitialState verifies that a freshly added switch is self-rooted
// with every port forwarding.
func TestInitialState(t *testing.T) {
	net := stpsim.CreateEmptyNetwork("initial")
	require.NoError(t, net.AddSwitch(7, 3, 2))

	snap := snapshotOf(t, net, 7)
	assert.Equal(t, 7, snap.ID)
	assert.Equal(t, 7, snap.RootID)
	assert.Equal(t, 0, snap.DistFromRoot)
	assert.Equal(t, stpsim.PortNone, snap.RootPort)
	assert.Equal(t, 7, snap.Upstream)
	assert.Equal(t, 2, snap.Weight)
	assert.Equal(t, []bool{true, true, true}, snap.Forwarding)
}

// TestTwoSwitchRound walks the first round of the smallest interesting
// topology: two one-port switches on one segment.  Switch 0 updates
// first, sees only switch 1's initial self-advertisement, and resets;
// switch 1 then sees switch 0's already-updated state and adopts it.
// Both end the round with their single port closed by the lone
// forwarding port rule.
func TestTwoSwitchRound(t *testing.T) {
	net := stpsim.CreateNetwork("pair", []int{1, 1})
	require.NoError(t, net.Connect([]stpsim.Endpoint{
		{Switch: 0, Port: 0},
		{Switch: 1, Port: 0},
	}))

	net.AdvanceRound()

	snap0 := snapshotOf(t, net, 0)
	assert.Equal(t, 0, snap0.RootID)
	assert.Equal(t, 0, snap0.DistFromRoot)
	assert.Equal(t, stpsim.PortNone, snap0.RootPort)
	assert.Equal(t, 0, snap0.Upstream)
	assert.Equal(t, []bool{false}, snap0.Forwarding)

	snap1 := snapshotOf(t, net, 1)
	assert.Equal(t, 0, snap1.RootID)
	assert.Equal(t, 1, snap1.DistFromRoot)
	assert.Equal(t, 0, snap1.RootPort)
	assert.Equal(t, 0, snap1.Upstream)
	assert.Equal(t, []bool{false}, snap1.Forwarding)
}

// TestIsolatedSwitch verifies that a switch with no neighbors stays
// self-rooted across rounds.
func TestIsolatedSwitch(t *testing.T) {
	net := stpsim.CreateEmptyNetwork("isolated")
	require.NoError(t, net.AddSwitch(3, 2, 1))

	net.RunRounds(4)

	snap := snapshotOf(t, net, 3)
	assert.Equal(t, 3, snap.RootID)
	assert.Equal(t, 0, snap.DistFromRoot)
	assert.Equal(t, stpsim.PortNone, snap.RootPort)
	assert.Equal(t, 3, snap.Upstream)

	// both empty ports are won by the switch's own advertisement,
	// so neither triggers the lone forwarding port closure
	assert.Equal(t, []bool{true, true}, snap.Forwarding)
}

// TestIsolatedSinglePortClosed covers the interaction of isolation and
// the lone forwarding port rule: an isolated one-port switch wins its
// only port, and the closure rule then shuts it.
func TestIsolatedSinglePortClosed(t *testing.T) {
	net := stpsim.CreateEmptyNetwork("isolated-one-port")
	require.NoError(t, net.AddSwitch(0, 1, 1))

	net.AdvanceRound()

	snap := snapshotOf(t, net, 0)
	assert.Equal(t, 0, snap.RootID)
	assert.Equal(t, []bool{false}, snap.Forwarding)
}

// TestTieBreakOnSender verifies the sender id breaks ties between
// advertisements with equal root and distance.  Switches 1 and 2 both
// sit one hop from the root and advertise (root 0, dist 1); switch 9
// hears both on the same port and must adopt the smaller sender.
func TestTieBreakOnSender(t *testing.T) {
	net := stpsim.CreateEmptyNetwork("tie")
	for _, sw := range []struct{ id, ports int }{
		{0, 2}, {1, 2}, {2, 2}, {9, 1},
	} {
		require.NoError(t, net.AddSwitch(sw.id, sw.ports, 1))
	}
	require.NoError(t, net.ConnectAll([][]stpsim.Endpoint{
		{{Switch: 0, Port: 0}, {Switch: 1, Port: 0}},
		{{Switch: 0, Port: 1}, {Switch: 2, Port: 0}},
		{{Switch: 1, Port: 1}, {Switch: 9, Port: 0}},
		{{Switch: 2, Port: 1}, {Switch: 9, Port: 0}},
	}))

	net.RunRounds(2)

	snap := snapshotOf(t, net, 9)
	assert.Equal(t, 0, snap.RootID)
	assert.Equal(t, 2, snap.DistFromRoot)
	assert.Equal(t, 1, snap.Upstream, "equal (root, dist) advertisements must resolve to the smaller sender")
	assert.Equal(t, 0, snap.RootPort)
}

// TestWeightAddsPerHop verifies a switch adds its own weight when
// adopting a neighbor's advertisement.
func TestWeightAddsPerHop(t *testing.T) {
	net := stpsim.CreateEmptyNetwork("weighted")
	require.NoError(t, net.AddSwitch(0, 1, 1))
	require.NoError(t, net.AddSwitch(1, 2, 5))
	require.NoError(t, net.AddSwitch(2, 1, 3))
	require.NoError(t, net.ConnectAll([][]stpsim.Endpoint{
		{{Switch: 0, Port: 0}, {Switch: 1, Port: 1}},
		{{Switch: 1, Port: 0}, {Switch: 2, Port: 0}},
	}))

	net.RunRounds(2)

	assert.Equal(t, 5, snapshotOf(t, net, 1).DistFromRoot)
	assert.Equal(t, 8, snapshotOf(t, net, 2).DistFromRoot)
}

// TestResetOnVanishedUpstream verifies the lose-confidence behavior:
// when the advertisement a switch relied on stops being reproducible
// (here, because its upstream was removed), the switch resets to the
// self-rooted state rather than keeping stale belief.
func TestResetOnVanishedUpstream(t *testing.T) {
	net := stpsim.CreateNetwork("vanish", []int{1, 2, 1})
	require.NoError(t, net.ConnectAll([][]stpsim.Endpoint{
		{{Switch: 0, Port: 0}, {Switch: 1, Port: 1}},
		{{Switch: 1, Port: 0}, {Switch: 2, Port: 0}},
	}))

	net.RunRounds(3)
	require.Equal(t, 0, snapshotOf(t, net, 2).RootID)

	require.NoError(t, net.RemoveSwitch(0))
	net.AdvanceRound()

	// switch 1 lost its upstream entirely and can gather only from
	// switch 2, whose advertisement is worse than what switch 1
	// relied on last round
	snap1 := snapshotOf(t, net, 1)
	assert.Equal(t, 1, snap1.RootID)
	assert.Equal(t, 0, snap1.DistFromRoot)
	assert.Equal(t, stpsim.PortNone, snap1.RootPort)
}
