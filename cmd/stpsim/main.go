package main

// Command stpsim runs the bundled demonstration scenario: a seven
// switch topology with five shared segments, five convergence rounds,
// removal of switch 0, and four more rounds, printing the network
// state after every round.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	stpsim "github.com/sholomdb/stp-simulation"
)

const padding = 10

// demoTopoDesc describes the demonstration topology: seven switches
// and five segments, one of them a three-way shared segment.
func demoTopoDesc() *stpsim.TopoDesc {
	td := stpsim.CreateTopoDesc("demo")
	for id, ports := range []int{2, 2, 2, 2, 3, 2, 2} {
		td.AddSwitchDesc(id, ports, 1)
	}
	td.AddSegmentDesc("A", []stpsim.Endpoint{{Switch: 0, Port: 1}, {Switch: 2, Port: 1}})
	td.AddSegmentDesc("B", []stpsim.Endpoint{{Switch: 0, Port: 0}, {Switch: 1, Port: 1}, {Switch: 5, Port: 1}, {Switch: 4, Port: 2}})
	td.AddSegmentDesc("C", []stpsim.Endpoint{{Switch: 1, Port: 0}, {Switch: 4, Port: 1}, {Switch: 6, Port: 1}, {Switch: 2, Port: 0}})
	td.AddSegmentDesc("D", []stpsim.Endpoint{{Switch: 3, Port: 1}, {Switch: 4, Port: 0}, {Switch: 5, Port: 0}})
	td.AddSegmentDesc("E", []stpsim.Endpoint{{Switch: 3, Port: 0}, {Switch: 6, Port: 0}})
	return td
}

func banner(label string) string {
	pad := strings.Repeat("#", padding)
	return fmt.Sprintf("%s %s %s", pad, label, pad)
}

// runRounds advances the network the requested number of rounds,
// printing the full state after each one.
func runRounds(net *stpsim.Network, rounds int, trace *stpsim.RoundTraceManager, firstRound int) {
	fmt.Println(banner("initial network"))
	fmt.Println(net)
	for i := 0; i < rounds; i++ {
		fmt.Println(banner(fmt.Sprintf("iteration %d", i+1)))
		net.AdvanceRound()
		trace.AddRound(firstRound+i, net)
		fmt.Println(net)
	}
}

func main() {
	topoFile := flag.String("topo", "", "topology description file (.yaml or .json), default is the built-in demo")
	traceFile := flag.String("trace", "", "write a per-round trace to this file (.yaml or .json)")
	flag.Parse()

	td := demoTopoDesc()
	if len(*topoFile) > 0 {
		ext := strings.ToLower(*topoFile)
		useYAML := strings.HasSuffix(ext, ".yaml") || strings.HasSuffix(ext, ".yml")
		read, err := stpsim.ReadTopoDesc(*topoFile, useYAML, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stpsim: %v\n", err)
			os.Exit(1)
		}
		td = read
	}

	net, err := td.BuildNetwork()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stpsim: %v\n", err)
		os.Exit(1)
	}

	trace := stpsim.CreateRoundTraceManager(td.Name, len(*traceFile) > 0)

	runRounds(net, 5, trace, 1)

	if _, present := net.SwitchByID(0); present {
		if err := net.RemoveSwitch(0); err != nil {
			fmt.Fprintf(os.Stderr, "stpsim: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n\n" + banner("after removing switch 0") + "\n")
		runRounds(net, 4, trace, 6)
	}

	if trace.Active() {
		if err := trace.WriteToFile(*traceFile); err != nil {
			fmt.Fprintf(os.Stderr, "stpsim: %v\n", err)
			os.Exit(1)
		}
	}
}
