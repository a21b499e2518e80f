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

// Package flow compiles flow descriptors into OpenFlow rules.
package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
)

// DefaultPriority is used when a descriptor does not set one.
const DefaultPriority uint16 = 0x8000

// Flow is a compiled flow descriptor. It must not be modified after Compile
// returns it.
type Flow struct {
	Name     string
	NodeID   string
	Priority uint16
	Match    Match
	// Actions are sorted by Kind.
	Actions []Action
	// Descriptor is a private copy of the descriptor the flow was compiled
	// from.
	Descriptor *v1alpha1.FlowDescriptor
	// Warnings lists the match fields and action tokens that were dropped.
	Warnings []ConversionWarning
}

// Compile translates a descriptor into a Flow. Match fields and action tokens
// that cannot be converted are dropped and reported in Flow.Warnings. Only a
// missing name or an invalid priority fail the whole descriptor, with an error
// wrapping ErrMalformedDescriptor.
func Compile(d *v1alpha1.FlowDescriptor) (*Flow, error) {
	if d == nil || d.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedDescriptor)
	}
	priority, err := parsePriority(d.Priority)
	if err != nil {
		return nil, malformed(d.Name, "invalid priority: %v", err)
	}

	match, warnings := buildMatch(d.Match)
	actions, actionWarnings := buildActions(d.Actions)

	return &Flow{
		Name:       d.Name,
		NodeID:     d.NodeID,
		Priority:   priority,
		Match:      match,
		Actions:    actions,
		Descriptor: d.DeepCopy(),
		Warnings:   append(warnings, actionWarnings...),
	}, nil
}

func parsePriority(p *intstr.IntOrString) (uint16, error) {
	if p == nil {
		return DefaultPriority, nil
	}
	var v int64
	if p.Type == intstr.Int {
		v = int64(p.IntVal)
	} else {
		var err error
		v, err = strconv.ParseInt(strings.TrimSpace(p.StrVal), 10, 64)
		if err != nil {
			return 0, err
		}
	}
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%d out of range [0, %d]", v, math.MaxUint16)
	}
	return uint16(v), nil
}

// String formats the flow the way ovs-ofctl dump-flows prints it.
func (f *Flow) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "priority=%d", f.Priority)
	if m := f.Match.String(); m != "" {
		b.WriteString(",")
		b.WriteString(m)
	}
	b.WriteString(" actions=")
	b.WriteString(f.ActionsString())
	return b.String()
}

// ActionsString formats the action list the way ovs-ofctl prints it.
func (f *Flow) ActionsString() string {
	if len(f.Actions) == 0 {
		return "drop"
	}
	actions := make([]string, len(f.Actions))
	for i, a := range f.Actions {
		actions[i] = a.String()
	}
	return strings.Join(actions, ",")
}

// Kinds returns the kinds of the flow's actions in application order.
func (f *Flow) Kinds() []ActionKind {
	kinds := make([]ActionKind, len(f.Actions))
	for i, a := range f.Actions {
		kinds[i] = a.Kind
	}
	return kinds
}
