package stpsim

// trace.go gathers per-round snapshots of switch state for post-run
// inspection.  The records are serializable so a whole simulation run
// can be written out and examined, or asserted against, offline.

import (
	"encoding/json"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// A SwitchSnapshot is the externally visible state of one switch at
// the end of a round: its identity, its current root belief, and the
// forwarding state of every port.
type SwitchSnapshot struct {
	ID           int    `json:"id" yaml:"id"`
	RootID       int    `json:"rootid" yaml:"rootid"`
	DistFromRoot int    `json:"distfromroot" yaml:"distfromroot"`
	RootPort     int    `json:"rootport" yaml:"rootport"`
	Upstream     int    `json:"upstream" yaml:"upstream"`
	Weight       int    `json:"weight" yaml:"weight"`
	Forwarding   []bool `json:"forwarding" yaml:"forwarding"`
}

// A RoundRecord holds the state of every switch at the end of one
// round, in the network's update order.
type RoundRecord struct {
	Round    int              `json:"round" yaml:"round"`
	Switches []SwitchSnapshot `json:"switches" yaml:"switches"`
}

// RoundTraceManager collects RoundRecords over a simulation run.
type RoundTraceManager struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// one record per traced round, in execution order
	Rounds []RoundRecord `json:"rounds" yaml:"rounds"`
}

// CreateRoundTraceManager is a constructor.  It saves the name of the
// experiment and a flag indicating whether the trace manager is
// active.  By testing this flag we can inhibit the activity of
// gathering a trace when we don't want it, while embedding calls to
// its methods everywhere we need them when it is.
func CreateRoundTraceManager(expName string, active bool) *RoundTraceManager {
	tm := new(RoundTraceManager)
	tm.InUse = active
	tm.ExpName = expName
	tm.Rounds = make([]RoundRecord, 0)
	return tm
}

// Active tells the caller whether the trace manager is actively being used.
func (tm *RoundTraceManager) Active() bool {
	return tm.InUse
}

// AddRound snapshots the whole network at the end of the named round
// and stores the record.
func (tm *RoundTraceManager) AddRound(round int, net *Network) {
	if !tm.InUse {
		return
	}
	tm.Rounds = append(tm.Rounds, RoundRecord{Round: round, Switches: net.Snapshot()})
}

// WriteToFile stores the gathered rounds to the file whose name is
// given.  Serialization to json or to yaml is selected based on the
// extension of this name.
func (tm *RoundTraceManager) WriteToFile(filename string) error {
	if !tm.InUse {
		return nil
	}
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		bytes, merr = yaml.Marshal(*tm)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(*tm, "", "\t")
	}

	if merr != nil {
		return merr
	}

	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	_, werr := f.WriteString(string(bytes[:]))
	f.Close()

	return werr
}
