package stpsim

// sim.go holds the SimulationDriver, which executes convergence rounds
// as events on an event manager.  Virtual time is a round counter: one
// unit of simulated time per round, nothing finer.  Topology edits can
// be interleaved between rounds, which is how scenarios like "run five
// rounds, remove a switch, run four more" are expressed.

import (
	"errors"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
)

// SimulationDriver runs a scheduled number of rounds over one network,
// applying any removals registered for the gaps between rounds, and
// feeding an optional trace manager after every round.
type SimulationDriver struct {
	evtMgr    *evtm.EventManager
	net       *Network
	trace     *RoundTraceManager
	round     int           // ordinal of the most recently completed round
	lastRound int           // ordinal of the last scheduled round
	removals  map[int][]int // switch ids to remove after the keyed round; key 0 means before any round
	errList   []error
}

// CreateSimulationDriver is a constructor.  The trace manager may be
// nil when no trace is wanted.
func CreateSimulationDriver(net *Network, trace *RoundTraceManager) *SimulationDriver {
	sd := new(SimulationDriver)
	sd.evtMgr = evtm.New()
	sd.net = net
	sd.trace = trace
	sd.removals = make(map[int][]int)
	sd.errList = []error{}
	return sd
}

// Network returns the network the driver operates on.
func (sd *SimulationDriver) Network() *Network {
	return sd.net
}

// Round returns the ordinal of the most recently completed round,
// zero before any round has run.
func (sd *SimulationDriver) Round() int {
	return sd.round
}

// ScheduleRounds extends the run by n more rounds.
func (sd *SimulationDriver) ScheduleRounds(n int) {
	sd.lastRound += n
}

// ScheduleRemoval registers removal of the named switch after the
// given round completes.  afterRound 0 applies the removal before the
// first round runs.  A removal naming an absent switch surfaces as an
// error from Run.
func (sd *SimulationDriver) ScheduleRemoval(afterRound, switchID int) {
	sd.removals[afterRound] = append(sd.removals[afterRound], switchID)
}

// execRound is the event handler for one round: advance the network,
// record the trace, apply any removals registered for the gap that
// follows, and chain the next round's event if more are scheduled.
func execRound(evtMgr *evtm.EventManager, context any, data any) any {
	sd := context.(*SimulationDriver)
	round := data.(int)

	sd.net.AdvanceRound()
	sd.round = round

	if sd.trace != nil && sd.trace.Active() {
		sd.trace.AddRound(round, sd.net)
	}

	sd.applyRemovals(round)

	if round < sd.lastRound {
		evtMgr.Schedule(sd, round+1, execRound, vrtime.SecondsToTime(1.0))
	}
	return nil
}

// applyRemovals performs the removals registered for the gap after the
// named round, collecting any errors for Run to report.
func (sd *SimulationDriver) applyRemovals(round int) {
	for _, id := range sd.removals[round] {
		if err := sd.net.RemoveSwitch(id); err != nil {
			sd.errList = append(sd.errList, err)
		}
	}
	delete(sd.removals, round)
}

// Run executes every scheduled round, in order, to completion.  It
// returns the accumulated errors from interleaved removals, nil when
// all of them succeeded.
func (sd *SimulationDriver) Run() error {
	sd.applyRemovals(0)

	if sd.round < sd.lastRound {
		sd.evtMgr.Schedule(sd, sd.round+1, execRound, vrtime.SecondsToTime(1.0))
		sd.evtMgr.Run(float64(sd.lastRound) + 1.0)
	}
	return errors.Join(sd.errList...)
}
