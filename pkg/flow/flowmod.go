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
	"antrea.io/libOpenflow/openflow15"
)

const (
	ethTypeVLAN uint16 = 0x8100
	// Send whole packets to the controller.
	controllerMaxLen uint16 = 0xffff
)

// AddMessage returns the FlowMod which installs the flow.
func (f *Flow) AddMessage() *openflow15.FlowMod {
	flowMod := f.flowMod(openflow15.FC_ADD)
	if instr := f.applyActions(); instr != nil {
		flowMod.Instructions = []openflow15.Instruction{instr}
	}
	return flowMod
}

// DeleteMessage returns the FlowMod which removes exactly this flow: same
// match and priority. The action list is carried along for diagnosis.
func (f *Flow) DeleteMessage() *openflow15.FlowMod {
	flowMod := f.flowMod(openflow15.FC_DELETE_STRICT)
	flowMod.OutPort = openflow15.P_ANY
	flowMod.OutGroup = openflow15.OFPG_ANY
	if instr := f.applyActions(); instr != nil {
		flowMod.Instructions = []openflow15.Instruction{instr}
	}
	return flowMod
}

// ClearAllMessage returns a FlowMod which removes every flow in every table.
func ClearAllMessage() *openflow15.FlowMod {
	flowMod := openflow15.NewFlowMod()
	flowMod.Command = openflow15.FC_DELETE
	flowMod.TableId = openflow15.OFPTT_ALL
	flowMod.OutPort = openflow15.P_ANY
	flowMod.OutGroup = openflow15.OFPG_ANY
	return flowMod
}

func (f *Flow) flowMod(command uint8) *openflow15.FlowMod {
	flowMod := openflow15.NewFlowMod()
	flowMod.Command = command
	flowMod.Priority = f.Priority
	for _, field := range f.Match.fields() {
		flowMod.Match.AddField(field)
	}
	return flowMod
}

// applyActions returns nil for a flow without actions, which drops matching
// packets.
func (f *Flow) applyActions() *openflow15.InstrActions {
	if len(f.Actions) == 0 {
		return nil
	}
	instr := openflow15.NewInstrApplyActions()
	// Whether the packet carries a VLAN tag at this point of the pipeline.
	tagged := f.Match.VLANID != nil
	for _, a := range f.Actions {
		switch a.Kind {
		case ActionPopVLAN:
			instr.AddAction(openflow15.NewActionPopVlan(), false)
			tagged = false
		case ActionSetVLANID:
			if !tagged {
				instr.AddAction(openflow15.NewActionPushVlan(ethTypeVLAN), false)
				tagged = true
			}
			vlanField := openflow15.NewVlanIdField(a.VLANID, nil)
			instr.AddAction(openflow15.NewActionSetField(*vlanField), false)
		case ActionSetDstMAC:
			macField := openflow15.NewEthDstField(a.MAC, nil)
			instr.AddAction(openflow15.NewActionSetField(*macField), false)
		case ActionController:
			output := openflow15.NewActionOutput(openflow15.P_CONTROLLER)
			output.MaxLen = controllerMaxLen
			instr.AddAction(output, false)
		case ActionOutput:
			output := openflow15.NewActionOutput(a.Port)
			if a.Port == uint32(openflow15.P_CONTROLLER) {
				output.MaxLen = controllerMaxLen
			}
			instr.AddAction(output, false)
		}
	}
	return instr
}
