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

package flow

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"antrea.io/libOpenflow/openflow15"
)

// ActionKind identifies one of the supported actions. The numeric order of the
// kinds is the order in which actions are applied by a compiled flow.
type ActionKind int

const (
	ActionPopVLAN ActionKind = iota
	ActionSetVLANID
	ActionSetDstMAC
	ActionController
	ActionOutput

	numActionKinds
)

const maxVLANID = 4095

var actionKeywords = map[string]ActionKind{
	"POP_VLAN":    ActionPopVLAN,
	"SET_VLAN_ID": ActionSetVLANID,
	"SET_DL_DST":  ActionSetDstMAC,
	"CONTROLLER":  ActionController,
	"OUTPUT":      ActionOutput,
}

// Reserved port names accepted as the OUTPUT operand.
var reservedPorts = map[string]uint32{
	"IN_PORT":    uint32(openflow15.P_IN_PORT),
	"NORMAL":     uint32(openflow15.P_NORMAL),
	"FLOOD":      uint32(openflow15.P_FLOOD),
	"ALL":        uint32(openflow15.P_ALL),
	"CONTROLLER": uint32(openflow15.P_CONTROLLER),
	"LOCAL":      uint32(openflow15.P_LOCAL),
}

func (k ActionKind) String() string {
	switch k {
	case ActionPopVLAN:
		return "POP_VLAN"
	case ActionSetVLANID:
		return "SET_VLAN_ID"
	case ActionSetDstMAC:
		return "SET_DL_DST"
	case ActionController:
		return "CONTROLLER"
	case ActionOutput:
		return "OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// Action is a single parsed action. Only the operand matching Kind is set.
type Action struct {
	Kind   ActionKind
	VLANID uint16
	MAC    net.HardwareAddr
	Port   uint32
}

// String formats the action the way ovs-ofctl prints it.
func (a Action) String() string {
	switch a.Kind {
	case ActionPopVLAN:
		return "pop_vlan"
	case ActionSetVLANID:
		return fmt.Sprintf("set_field:%d->vlan_vid", a.VLANID)
	case ActionSetDstMAC:
		return fmt.Sprintf("set_field:%s->eth_dst", a.MAC)
	case ActionController:
		return "CONTROLLER:65535"
	case ActionOutput:
		for name, port := range reservedPorts {
			if port == a.Port {
				return name
			}
		}
		return fmt.Sprintf("output:%d", a.Port)
	default:
		return "unknown"
	}
}

// ParseAction parses a single action token such as "OUTPUT=20" or
// "POP_VLAN". The keyword is the text before the first '=' and must match one
// of the supported keywords exactly, ignoring case and surrounding spaces.
func ParseAction(token string) (Action, error) {
	keyword, operand, _ := strings.Cut(token, "=")
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	operand = strings.TrimSpace(operand)

	kind, ok := actionKeywords[keyword]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", keyword)
	}
	a := Action{Kind: kind}
	switch kind {
	case ActionPopVLAN:
	case ActionController:
		// The operand, if any, is ignored: packets always go to the
		// controller port.
		a.Port = uint32(openflow15.P_CONTROLLER)
	case ActionSetVLANID:
		vid, err := strconv.ParseUint(operand, 10, 16)
		if err != nil {
			return Action{}, fmt.Errorf("invalid VLAN ID %q: %w", operand, err)
		}
		if vid > maxVLANID {
			return Action{}, fmt.Errorf("VLAN ID %d out of range", vid)
		}
		a.VLANID = uint16(vid)
	case ActionSetDstMAC:
		mac, err := parseMAC(operand)
		if err != nil {
			return Action{}, err
		}
		a.MAC = mac
	case ActionOutput:
		port, err := parsePort(operand)
		if err != nil {
			return Action{}, err
		}
		a.Port = port
	}
	return a, nil
}

// buildActions returns at most one action per kind, in canonical order. For
// each kind, the first token carrying its keyword is authoritative.
func buildActions(tokens []string) ([]Action, []ConversionWarning) {
	var parsed [numActionKinds]*Action
	var seen [numActionKinds]bool
	var warnings []ConversionWarning

	for _, token := range tokens {
		a, err := ParseAction(token)
		if err != nil {
			kind, known := actionKeywords[actionKeyword(token)]
			if known {
				seen[kind] = true
			}
			warnings = append(warnings, ConversionWarning{Field: "actions", Value: token, Err: err})
			continue
		}
		if seen[a.Kind] {
			warnings = append(warnings, ConversionWarning{Field: "actions", Value: token, Err: fmt.Errorf("duplicate %s action ignored", a.Kind)})
			continue
		}
		seen[a.Kind] = true
		parsed[a.Kind] = &a
	}

	actions := make([]Action, 0, len(tokens))
	for _, a := range parsed {
		if a != nil {
			actions = append(actions, *a)
		}
	}
	return actions, warnings
}

func actionKeyword(token string) string {
	keyword, _, _ := strings.Cut(token, "=")
	return strings.ToUpper(strings.TrimSpace(keyword))
}

func parsePort(s string) (uint32, error) {
	if port, ok := reservedPorts[strings.ToUpper(s)]; ok {
		return port, nil
	}
	port, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if port > uint64(openflow15.P_MAX) {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return uint32(port), nil
}

func parseMAC(s string) (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, err
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("%q is not a 48-bit MAC address", s)
	}
	return mac, nil
}
