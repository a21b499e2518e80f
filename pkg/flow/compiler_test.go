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
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
)

func priority(v int) *intstr.IntOrString {
	p := intstr.FromInt32(int32(v))
	return &p
}

func mustParseMAC(s string) net.HardwareAddr {
	mac, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return mac
}

func TestCompileDropPVST(t *testing.T) {
	d := &v1alpha1.FlowDescriptor{
		Name:   "DropPVST",
		NodeID: "S1",
		Match: map[string]intstr.IntOrString{
			"in_port": intstr.FromInt32(64),
			"dl_dst":  intstr.FromString("01:00:0c:cc:cc:cd"),
		},
		Actions:  []string{},
		Priority: priority(9999),
	}
	f, err := Compile(d)
	require.NoError(t, err)

	assert.Equal(t, "DropPVST", f.Name)
	assert.Equal(t, "S1", f.NodeID)
	assert.Equal(t, uint16(9999), f.Priority)
	require.NotNil(t, f.Match.InPort)
	assert.Equal(t, uint32(64), *f.Match.InPort)
	assert.Equal(t, mustParseMAC("01:00:0c:cc:cc:cd"), f.Match.EthDst)
	assert.Nil(t, f.Match.EthType)
	assert.Nil(t, f.Match.EthSrc)
	assert.Nil(t, f.Match.VLANID)
	assert.Empty(t, f.Actions)
	assert.Empty(t, f.Warnings)
	assert.Equal(t, "priority=9999,in_port=64,dl_dst=01:00:0c:cc:cc:cd actions=drop", f.String())
}

func TestCompileCanonicalOrder(t *testing.T) {
	tests := []struct {
		name          string
		actions       []string
		expectedKinds []ActionKind
	}{
		{
			name:          "output before pop",
			actions:       []string{"OUTPUT=20", "POP_VLAN"},
			expectedKinds: []ActionKind{ActionPopVLAN, ActionOutput},
		},
		{
			name:          "all kinds reversed",
			actions:       []string{"OUTPUT=1", "CONTROLLER", "SET_DL_DST=00:00:00:00:00:01", "SET_VLAN_ID=10", "POP_VLAN"},
			expectedKinds: []ActionKind{ActionPopVLAN, ActionSetVLANID, ActionSetDstMAC, ActionController, ActionOutput},
		},
		{
			name:          "duplicates collapse",
			actions:       []string{"OUTPUT=1", "OUTPUT=2", "SET_VLAN_ID=10", "SET_VLAN_ID=11"},
			expectedKinds: []ActionKind{ActionSetVLANID, ActionOutput},
		},
		{
			name:          "no actions",
			actions:       nil,
			expectedKinds: []ActionKind{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(&v1alpha1.FlowDescriptor{Name: "f", Actions: tt.actions})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKinds, f.Kinds())
		})
	}
}

func TestCompileFirstTokenWins(t *testing.T) {
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name:    "f",
		Actions: []string{"OUTPUT=3", "SET_VLAN_ID=1751", "OUTPUT=4", "set_vlan_id = 12"},
	})
	require.NoError(t, err)
	require.Len(t, f.Actions, 2)
	assert.Equal(t, Action{Kind: ActionSetVLANID, VLANID: 1751}, f.Actions[0])
	assert.Equal(t, Action{Kind: ActionOutput, Port: 3}, f.Actions[1])
	assert.Len(t, f.Warnings, 2)
}

func TestCompileMalformedFirstTokenSuppressesKind(t *testing.T) {
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name:    "f",
		Actions: []string{"OUTPUT=eth0", "OUTPUT=4"},
	})
	require.NoError(t, err)
	assert.Empty(t, f.Actions)
	assert.Len(t, f.Warnings, 2)
}

func TestCompileExactKeywords(t *testing.T) {
	// Neither token names a supported action, even though both contain
	// one of the keywords.
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name:    "f",
		Actions: []string{"NO_OUTPUT=3", "SEND_TO_CONTROLLER", "CONTROLLER=whatever"},
	})
	require.NoError(t, err)
	assert.Equal(t, []ActionKind{ActionController}, f.Kinds())
	require.Len(t, f.Warnings, 2)
	for _, w := range f.Warnings {
		assert.Equal(t, "actions", w.Field)
	}
}

func TestCompilePriority(t *testing.T) {
	tests := []struct {
		name             string
		priority         *intstr.IntOrString
		expectedPriority uint16
		expectedErr      bool
	}{
		{name: "absent", priority: nil, expectedPriority: DefaultPriority},
		{name: "integer", priority: priority(500), expectedPriority: 500},
		{name: "zero", priority: priority(0), expectedPriority: 0},
		{name: "max", priority: priority(65535), expectedPriority: 65535},
		{name: "integer string", priority: func() *intstr.IntOrString { p := intstr.FromString(" 200 "); return &p }(), expectedPriority: 200},
		{name: "not a number", priority: func() *intstr.IntOrString { p := intstr.FromString("high"); return &p }(), expectedErr: true},
		{name: "negative", priority: priority(-1), expectedErr: true},
		{name: "too large", priority: priority(70000), expectedErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(&v1alpha1.FlowDescriptor{Name: "p", Priority: tt.priority})
			if tt.expectedErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedDescriptor))
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPriority, f.Priority)
		})
	}
}

func TestCompileMissingName(t *testing.T) {
	_, err := Compile(&v1alpha1.FlowDescriptor{Actions: []string{"OUTPUT=1"}})
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
	_, err = Compile(nil)
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestCompileMatchFields(t *testing.T) {
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name: "m",
		Match: map[string]intstr.IntOrString{
			"in_port": intstr.FromString("7"),
			"dl_type": intstr.FromString("0x800"),
			"dl_src":  intstr.FromString("00:11:22:33:44:55"),
			"dl_vlan": intstr.FromInt32(1751),
			"nw_src":  intstr.FromString("10.0.0.0/8"),
			"nw_dst":  intstr.FromString("192.168.1.5"),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, f.Warnings)
	assert.Equal(t, uint32(7), *f.Match.InPort)
	assert.Equal(t, uint16(0x0800), *f.Match.EthType)
	assert.Equal(t, mustParseMAC("00:11:22:33:44:55"), f.Match.EthSrc)
	assert.Equal(t, uint16(1751), *f.Match.VLANID)
	assert.Equal(t, "10.0.0.0/8", f.Match.IPSrc.String())
	assert.Equal(t, "192.168.1.5/32", f.Match.IPDst.String())
}

func TestCompileMatchFieldWarnings(t *testing.T) {
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name: "w",
		Match: map[string]intstr.IntOrString{
			"in_port": intstr.FromString("eth1"),
			"dl_type": intstr.FromString("0xzz"),
			"dl_dst":  intstr.FromString("not-a-mac"),
			"dl_src":  intstr.FromInt32(5),
			"dl_vlan": intstr.FromInt32(5000),
			"nw_src":  intstr.FromString("10.0.0.0/33"),
			"tp_dst":  intstr.FromInt32(80),
		},
		Actions:  []string{"OUTPUT=1"},
		Priority: priority(10),
	})
	require.NoError(t, err)
	assert.Equal(t, Match{}, f.Match)
	assert.Equal(t, []ActionKind{ActionOutput}, f.Kinds())

	var fields []string
	for _, w := range f.Warnings {
		fields = append(fields, w.Field)
	}
	assert.ElementsMatch(t, []string{"in_port", "dl_type", "dl_dst", "dl_src", "dl_vlan", "nw_src", "tp_dst"}, fields)
}

func TestCompileIPMatchRequiresIPv4EthType(t *testing.T) {
	f, err := Compile(&v1alpha1.FlowDescriptor{
		Name: "arp",
		Match: map[string]intstr.IntOrString{
			"dl_type": intstr.FromInt32(0x806),
			"nw_dst":  intstr.FromString("10.0.0.1"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x806), *f.Match.EthType)
	assert.Nil(t, f.Match.IPDst)
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, "nw_dst", f.Warnings[0].Field)
}

func TestCompileDoesNotAliasDescriptor(t *testing.T) {
	d := &v1alpha1.FlowDescriptor{Name: "a", Actions: []string{"OUTPUT=1"}}
	f, err := Compile(d)
	require.NoError(t, err)
	d.Actions[0] = "OUTPUT=2"
	assert.Equal(t, []string{"OUTPUT=1"}, f.Descriptor.Actions)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		token    string
		expected Action
		err      bool
	}{
		{token: "POP_VLAN", expected: Action{Kind: ActionPopVLAN}},
		{token: "pop_vlan", expected: Action{Kind: ActionPopVLAN}},
		{token: "SET_VLAN_ID=4095", expected: Action{Kind: ActionSetVLANID, VLANID: 4095}},
		{token: "SET_VLAN_ID=4096", err: true},
		{token: "SET_DL_DST=aa:bb:cc:dd:ee:ff", expected: Action{Kind: ActionSetDstMAC, MAC: mustParseMAC("aa:bb:cc:dd:ee:ff")}},
		{token: "SET_DL_DST=aa:bb", err: true},
		{token: "CONTROLLER", expected: Action{Kind: ActionController, Port: 0xfffffffd}},
		{token: "OUTPUT=20", expected: Action{Kind: ActionOutput, Port: 20}},
		{token: " OUTPUT = 21 ", expected: Action{Kind: ActionOutput, Port: 21}},
		{token: "OUTPUT=in_port", expected: Action{Kind: ActionOutput, Port: 0xfffffff8}},
		{token: "OUTPUT=", err: true},
		{token: "DROP", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			a, err := ParseAction(tt.token)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a)
		})
	}
}
