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
	"testing"

	"antrea.io/libOpenflow/openflow15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
)

func mustCompile(t *testing.T, d *v1alpha1.FlowDescriptor) *Flow {
	f, err := Compile(d)
	require.NoError(t, err)
	return f
}

func getActions(t *testing.T, flowMod *openflow15.FlowMod) []openflow15.Action {
	require.Len(t, flowMod.Instructions, 1)
	instr, ok := flowMod.Instructions[0].(*openflow15.InstrActions)
	require.True(t, ok)
	return instr.Actions
}

func checkVLANSetField(t *testing.T, vid uint16, action openflow15.Action) {
	require.IsType(t, &openflow15.ActionSetField{}, action)
	setField := action.(*openflow15.ActionSetField)
	assert.Equal(t, uint16(openflow15.OXM_CLASS_OPENFLOW_BASIC), setField.Field.Class)
	assert.Equal(t, uint8(openflow15.OXM_FIELD_VLAN_VID), setField.Field.Field)
	assert.Equal(t, &openflow15.VlanIdField{VlanId: vid | openflow15.OFPVID_PRESENT}, setField.Field.Value)
}

func TestAddMessageMatch(t *testing.T) {
	f := mustCompile(t, &v1alpha1.FlowDescriptor{
		Name: "DropPVST",
		Match: map[string]intstr.IntOrString{
			"in_port": intstr.FromInt32(64),
			"dl_dst":  intstr.FromString("01:00:0c:cc:cc:cd"),
		},
		Priority: priority(9999),
	})
	flowMod := f.AddMessage()
	assert.Equal(t, uint8(openflow15.FC_ADD), flowMod.Command)
	assert.Equal(t, uint16(9999), flowMod.Priority)
	assert.Empty(t, flowMod.Instructions)

	require.Len(t, flowMod.Match.Fields, 2)
	assert.Equal(t, uint8(openflow15.OXM_FIELD_IN_PORT), flowMod.Match.Fields[0].Field)
	assert.Equal(t, &openflow15.InPortField{InPort: 64}, flowMod.Match.Fields[0].Value)
	assert.Equal(t, uint8(openflow15.OXM_FIELD_ETH_DST), flowMod.Match.Fields[1].Field)
	assert.Equal(t, &openflow15.EthDstField{EthDst: mustParseMAC("01:00:0c:cc:cc:cd")}, flowMod.Match.Fields[1].Value)
}

func TestAddMessageIPv4Prefix(t *testing.T) {
	f := mustCompile(t, &v1alpha1.FlowDescriptor{
		Name: "prefix",
		Match: map[string]intstr.IntOrString{
			"nw_src": intstr.FromString("10.1.0.0/16"),
		},
		Actions: []string{"OUTPUT=2"},
	})
	flowMod := f.AddMessage()
	require.Len(t, flowMod.Match.Fields, 2)
	assert.Equal(t, uint8(openflow15.OXM_FIELD_ETH_TYPE), flowMod.Match.Fields[0].Field)
	assert.Equal(t, &openflow15.EthTypeField{EthType: 0x0800}, flowMod.Match.Fields[0].Value)
	assert.Equal(t, uint8(openflow15.OXM_FIELD_IPV4_SRC), flowMod.Match.Fields[1].Field)
	assert.True(t, flowMod.Match.Fields[1].HasMask)
}

func TestAddMessageActions(t *testing.T) {
	dstMAC := mustParseMAC("aa:bb:cc:dd:ee:ff")
	tests := []struct {
		name       string
		match      map[string]intstr.IntOrString
		actions    []string
		checkFuncs []func(t *testing.T, action openflow15.Action)
	}{
		{
			name:    "pop and output",
			actions: []string{"OUTPUT=20", "POP_VLAN"},
			checkFuncs: []func(t *testing.T, action openflow15.Action){
				func(t *testing.T, action openflow15.Action) {
					assert.IsType(t, &openflow15.ActionPopVlan{}, action)
				},
				func(t *testing.T, action openflow15.Action) {
					require.IsType(t, &openflow15.ActionOutput{}, action)
					assert.Equal(t, uint32(20), action.(*openflow15.ActionOutput).Port)
				},
			},
		},
		{
			name:    "set VLAN on untagged packet pushes a tag",
			actions: []string{"OUTPUT=1", "SET_VLAN_ID=1751"},
			checkFuncs: []func(t *testing.T, action openflow15.Action){
				func(t *testing.T, action openflow15.Action) {
					require.IsType(t, &openflow15.ActionPush{}, action)
					assert.Equal(t, uint16(0x8100), action.(*openflow15.ActionPush).EtherType)
				},
				func(t *testing.T, action openflow15.Action) {
					checkVLANSetField(t, 1751, action)
				},
				func(t *testing.T, action openflow15.Action) {
					assert.Equal(t, uint32(1), action.(*openflow15.ActionOutput).Port)
				},
			},
		},
		{
			name:    "set VLAN on tagged packet rewrites the tag",
			match:   map[string]intstr.IntOrString{"dl_vlan": intstr.FromInt32(100)},
			actions: []string{"SET_VLAN_ID=200"},
			checkFuncs: []func(t *testing.T, action openflow15.Action){
				func(t *testing.T, action openflow15.Action) {
					checkVLANSetField(t, 200, action)
				},
			},
		},
		{
			name:    "pop then set VLAN pushes a new tag",
			match:   map[string]intstr.IntOrString{"dl_vlan": intstr.FromInt32(100)},
			actions: []string{"SET_VLAN_ID=200", "POP_VLAN"},
			checkFuncs: []func(t *testing.T, action openflow15.Action){
				func(t *testing.T, action openflow15.Action) {
					assert.IsType(t, &openflow15.ActionPopVlan{}, action)
				},
				func(t *testing.T, action openflow15.Action) {
					assert.IsType(t, &openflow15.ActionPush{}, action)
				},
				func(t *testing.T, action openflow15.Action) {
					checkVLANSetField(t, 200, action)
				},
			},
		},
		{
			name:    "set destination MAC and send to controller",
			actions: []string{"CONTROLLER", "SET_DL_DST=aa:bb:cc:dd:ee:ff"},
			checkFuncs: []func(t *testing.T, action openflow15.Action){
				func(t *testing.T, action openflow15.Action) {
					require.IsType(t, &openflow15.ActionSetField{}, action)
					setField := action.(*openflow15.ActionSetField)
					assert.Equal(t, uint8(openflow15.OXM_FIELD_ETH_DST), setField.Field.Field)
					assert.Equal(t, &openflow15.EthDstField{EthDst: dstMAC}, setField.Field.Value)
				},
				func(t *testing.T, action openflow15.Action) {
					require.IsType(t, &openflow15.ActionOutput{}, action)
					output := action.(*openflow15.ActionOutput)
					assert.Equal(t, uint32(openflow15.P_CONTROLLER), output.Port)
					assert.Equal(t, uint16(0xffff), output.MaxLen)
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustCompile(t, &v1alpha1.FlowDescriptor{Name: "a", Match: tt.match, Actions: tt.actions})
			actions := getActions(t, f.AddMessage())
			require.Len(t, actions, len(tt.checkFuncs))
			for i, check := range tt.checkFuncs {
				check(t, actions[i])
			}
		})
	}
}

func TestDeleteMessage(t *testing.T) {
	f := mustCompile(t, &v1alpha1.FlowDescriptor{
		Name:     "d",
		Match:    map[string]intstr.IntOrString{"in_port": intstr.FromInt32(3)},
		Actions:  []string{"OUTPUT=4"},
		Priority: priority(100),
	})
	flowMod := f.DeleteMessage()
	assert.Equal(t, uint8(openflow15.FC_DELETE_STRICT), flowMod.Command)
	assert.Equal(t, uint16(100), flowMod.Priority)
	assert.Equal(t, uint32(openflow15.P_ANY), flowMod.OutPort)
	assert.Equal(t, uint32(openflow15.OFPG_ANY), flowMod.OutGroup)
	require.Len(t, flowMod.Match.Fields, 1)
	actions := getActions(t, flowMod)
	require.Len(t, actions, 1)
}

func TestClearAllMessage(t *testing.T) {
	flowMod := ClearAllMessage()
	assert.Equal(t, uint8(openflow15.FC_DELETE), flowMod.Command)
	assert.Equal(t, uint8(openflow15.OFPTT_ALL), flowMod.TableId)
	assert.Equal(t, uint32(openflow15.P_ANY), flowMod.OutPort)
	assert.Empty(t, flowMod.Match.Fields)
	assert.Empty(t, flowMod.Instructions)
}

func TestFlowString(t *testing.T) {
	f := mustCompile(t, &v1alpha1.FlowDescriptor{
		Name: "s",
		Match: map[string]intstr.IntOrString{
			"dl_type": intstr.FromString("0x800"),
			"nw_dst":  intstr.FromString("10.0.0.0/24"),
		},
		Actions:  []string{"OUTPUT=NORMAL", "SET_DL_DST=00:00:00:00:00:02"},
		Priority: priority(10),
	})
	assert.Equal(t, "priority=10,dl_type=0x0800,nw_dst=10.0.0.0/24 actions=set_field:00:00:00:00:00:02->eth_dst,NORMAL", f.String())
}
