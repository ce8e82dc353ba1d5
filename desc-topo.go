package stpsim

// desc-topo.go holds serializable descriptions of a switch topology.
// The Desc structs are pointer-free so they round-trip cleanly through
// yaml or json; BuildNetwork materializes a run-time Network from one.

import (
	"encoding/json"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// A SwitchDesc describes one switch in a topology file.  A zero or
// omitted Weight means the default weight of 1.
type SwitchDesc struct {
	ID     int `json:"id" yaml:"id"`
	Ports  int `json:"ports" yaml:"ports"`
	Weight int `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// An EndpointDesc names one attachment point of a segment.
type EndpointDesc struct {
	Switch int `json:"switch" yaml:"switch"`
	Port   int `json:"port" yaml:"port"`
}

// A SegmentDesc describes one shared segment: two or more endpoints
// joined as a single broadcast medium.  The name is purely a label
// carried for the reader's benefit.
type SegmentDesc struct {
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Endpoints []EndpointDesc `json:"endpoints" yaml:"endpoints"`
}

// A TopoDesc is the serializable description of a whole topology.
type TopoDesc struct {
	Name     string        `json:"name" yaml:"name"`
	Switches []SwitchDesc  `json:"switches" yaml:"switches"`
	Segments []SegmentDesc `json:"segments" yaml:"segments"`
}

// CreateTopoDesc is an initialization constructor.  The returned
// struct has methods for integrating switches and segments.
func CreateTopoDesc(name string) *TopoDesc {
	td := new(TopoDesc)
	td.Name = name
	td.Switches = make([]SwitchDesc, 0)
	td.Segments = make([]SegmentDesc, 0)
	return td
}

// AddSwitchDesc appends a switch description.
func (td *TopoDesc) AddSwitchDesc(id, ports, weight int) {
	td.Switches = append(td.Switches, SwitchDesc{ID: id, Ports: ports, Weight: weight})
}

// AddSegmentDesc appends a segment description built from a list of
// run-time Endpoint values.
func (td *TopoDesc) AddSegmentDesc(name string, endpoints []Endpoint) {
	eps := make([]EndpointDesc, 0, len(endpoints))
	for _, ep := range endpoints {
		eps = append(eps, EndpointDesc{Switch: ep.Switch, Port: ep.Port})
	}
	td.Segments = append(td.Segments, SegmentDesc{Name: name, Endpoints: eps})
}

// WriteToFile stores the TopoDesc struct to the file whose name is
// given.  Serialization to json or to yaml is selected based on the
// extension of this name.
func (td *TopoDesc) WriteToFile(filename string) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		bytes, merr = yaml.Marshal(*td)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(*td, "", "\t")
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

// ReadTopoDesc deserializes a byte slice holding a representation of a
// TopoDesc struct.  If the input argument of dict (those bytes) is
// empty, the file whose name is given is read to acquire them.  A
// deserialized representation is returned, or an error if one is
// generated from a file read or the deserialization.
func ReadTopoDesc(filename string, useYAML bool, dict []byte) (*TopoDesc, error) {
	var err error

	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := TopoDesc{}

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, err
	}

	return &example, nil
}

// BuildNetwork materializes a run-time Network from the description,
// reporting the first construction error encountered.
func (td *TopoDesc) BuildNetwork() (*Network, error) {
	net := CreateEmptyNetwork(td.Name)
	for _, sd := range td.Switches {
		weight := sd.Weight
		if weight == 0 {
			weight = 1
		}
		if err := net.AddSwitch(sd.ID, sd.Ports, weight); err != nil {
			return nil, err
		}
	}

	for _, segment := range td.Segments {
		eps := make([]Endpoint, 0, len(segment.Endpoints))
		for _, ed := range segment.Endpoints {
			eps = append(eps, Endpoint{Switch: ed.Switch, Port: ed.Port})
		}
		if err := net.Connect(eps); err != nil {
			return nil, err
		}
	}
	return net, nil
}
