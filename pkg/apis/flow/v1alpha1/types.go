// Copyright 2024 Antrea Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package v1alpha1 contains the storage form of flow descriptors, as they are
// loaded from the descriptors file and returned by the control API.
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Names of the match fields understood by the compiler.
const (
	MatchInPort = "in_port"
	MatchDLType = "dl_type"
	MatchDLSrc  = "dl_src"
	MatchDLDst  = "dl_dst"
	MatchDLVlan = "dl_vlan"
	MatchNWSrc  = "nw_src"
	MatchNWDst  = "nw_dst"
)

// All is the wildcard name accepted by the install, remove and query
// operations.
const All = "all"

// FlowDescriptor is the declarative representation of a single forwarding
// rule. Any field may be absent.
type FlowDescriptor struct {
	// Name is unique among the descriptors known to the manager.
	Name string `json:"name"`
	// NodeID identifies the switch the rule is pushed to. An empty NodeID
	// targets every connected switch.
	NodeID string `json:"node_id,omitempty"`
	// Match maps a match field name to its literal value. Absent fields are
	// wildcards.
	Match map[string]intstr.IntOrString `json:"match,omitempty"`
	// Actions is the ordered list of action tokens, e.g. "OUTPUT=20".
	Actions []string `json:"actions"`
	// Priority defaults to 0x8000 when nil.
	Priority *intstr.IntOrString `json:"priority,omitempty"`
}

// FlowDescriptorList is the top-level document of the descriptors file.
type FlowDescriptorList struct {
	Flows []FlowDescriptor `json:"flows"`
}

// DeepCopy returns a copy of d that shares no memory with it.
func (d *FlowDescriptor) DeepCopy() *FlowDescriptor {
	if d == nil {
		return nil
	}
	out := &FlowDescriptor{
		Name:   d.Name,
		NodeID: d.NodeID,
	}
	if d.Match != nil {
		out.Match = make(map[string]intstr.IntOrString, len(d.Match))
		for k, v := range d.Match {
			out.Match[k] = v
		}
	}
	if d.Actions != nil {
		out.Actions = make([]string, len(d.Actions))
		copy(out.Actions, d.Actions)
	}
	if d.Priority != nil {
		p := *d.Priority
		out.Priority = &p
	}
	return out
}
