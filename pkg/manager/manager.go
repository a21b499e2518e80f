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

// Package manager keeps track of the flows known to the controller (the saved
// set) and of the flows pushed to switches (the installed set), and installs
// or removes them on request.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"antrea.io/libOpenflow/util"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/flow"
	"antrea.io/flowmanager/pkg/metrics"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
)

// ErrUnknownName is returned by by-name operations when no saved flow has the
// requested name.
var ErrUnknownName = errors.New("unknown flow name")

const defaultBridgeTimeout = 10 * time.Second

// ControllerBridge mirrors a flow to a second, independent controller.
type ControllerBridge interface {
	AddFlow(ctx context.Context, d *v1alpha1.FlowDescriptor) error
	// DeleteFlow must not fail when the flow is already absent.
	DeleteFlow(ctx context.Context, nodeID, name string) error
}

type Options struct {
	// CrossDomainFlow is the name of the flow mirrored to the
	// ControllerBridge. Empty disables mirroring.
	CrossDomainFlow string
	// ReinstallMatchingNodeOnly restricts the flows pushed to a newly
	// connected switch to those whose node ID is empty or equal to the
	// switch's ID. By default, every saved flow is pushed.
	ReinstallMatchingNodeOnly bool
	// BridgeTimeout bounds each ControllerBridge request.
	BridgeTimeout time.Duration
}

type savedFlow struct {
	descriptor *v1alpha1.FlowDescriptor
	// Exactly one of flow and err is set.
	flow *flow.Flow
	err  error
}

// Manager owns the saved and installed flow sets. All methods are safe for
// concurrent use: the sets are guarded by a single mutex, which is held while
// messages are sent to switches but released before the ControllerBridge is
// called.
type Manager struct {
	registry binding.Registry
	bridge   ControllerBridge
	options  Options

	mu         sync.Mutex
	saved      map[string]*savedFlow
	savedOrder []string
	// installed is a multiset: installing a flow twice records it twice.
	installed         []*flow.Flow
	disconnectHandler func()
}

var _ binding.ConnectionHandler = &Manager{}

// NewManager returns a Manager pushing flows through registry. bridge may be
// nil.
func NewManager(registry binding.Registry, bridge ControllerBridge, options Options) *Manager {
	if options.BridgeTimeout == 0 {
		options.BridgeTimeout = defaultBridgeTimeout
	}
	return &Manager{
		registry: registry,
		bridge:   bridge,
		options:  options,
		saved:    make(map[string]*savedFlow),
	}
}

// Load compiles descriptors and adds them to the saved set. The first
// descriptor with a given name wins. Descriptors which fail to compile are
// kept, so that they can be queried, but are never installed.
func (m *Manager) Load(descriptors []v1alpha1.FlowDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range descriptors {
		d := descriptors[i].DeepCopy()
		if d.Name == "" {
			klog.ErrorS(flow.ErrMalformedDescriptor, "Ignoring flow descriptor without a name", "index", i)
			continue
		}
		if _, exists := m.saved[d.Name]; exists {
			klog.InfoS("Ignoring duplicate flow descriptor", "flow", d.Name, "index", i)
			continue
		}
		f, err := flow.Compile(d)
		if err != nil {
			klog.ErrorS(err, "Failed to compile flow descriptor, it will not be installed", "flow", d.Name)
		} else {
			for _, w := range f.Warnings {
				klog.InfoS("Ignoring unconvertible flow field", "flow", d.Name, "field", w.Field, "value", w.Value, "reason", w.Err)
			}
		}
		m.saved[d.Name] = &savedFlow{descriptor: d, flow: f, err: err}
		m.savedOrder = append(m.savedOrder, d.Name)
	}
	m.updateSavedMetrics()
}

func (m *Manager) updateSavedMetrics() {
	var compiled, malformed int
	for _, s := range m.saved {
		if s.err != nil {
			malformed++
		} else {
			compiled++
		}
	}
	metrics.SavedFlowCount.WithLabelValues("compiled").Set(float64(compiled))
	metrics.SavedFlowCount.WithLabelValues("malformed").Set(float64(malformed))
}

// SetDisconnectHandler sets the function called when a switch disconnects.
func (m *Manager) SetDisconnectHandler(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectHandler = fn
}

// Install pushes the named saved flow, or every saved flow when name is "all",
// to its switch. A flow whose switch is not connected, or which could not be
// sent, is logged and skipped. It returns ErrUnknownName if no saved flow has
// the name, and an error wrapping flow.ErrMalformedDescriptor if the flow
// could not be compiled.
func (m *Manager) Install(name string) error {
	mirror, err := m.install(name)
	if mirror != nil {
		m.mirror(metrics.OperationAdd, mirror)
	}
	return err
}

func (m *Manager) install(name string) (*v1alpha1.FlowDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mirror *v1alpha1.FlowDescriptor
	if name == v1alpha1.All {
		for _, n := range m.savedOrder {
			s := m.saved[n]
			if s.err != nil {
				klog.InfoS("Skipping malformed flow", "flow", n, "err", s.err)
				continue
			}
			m.push(s.flow)
			if m.isCrossDomain(n) {
				mirror = s.descriptor
			}
		}
		return mirror, nil
	}

	s, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	m.push(s.flow)
	if m.isCrossDomain(name) {
		mirror = s.descriptor
	}
	return mirror, nil
}

// Remove deletes the named flow, or every flow when name is "all", from the
// switches and from the installed set.
//
// Removing "all" sends a clear directive to the switches connected at the time
// of the call and then empties the installed set unconditionally. It is a
// best-effort global clear: a switch which misses the directive, for instance
// because it connects concurrently, keeps its flows although they are no
// longer recorded as installed.
//
// Removing a single flow removes every installed entry with that name, even if
// the delete could not be sent to the switch.
func (m *Manager) Remove(name string) error {
	mirror, err := m.remove(name)
	if mirror != nil {
		m.mirror(metrics.OperationDelete, mirror)
	}
	return err
}

func (m *Manager) remove(name string) (*v1alpha1.FlowDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mirror *v1alpha1.FlowDescriptor
	if name == v1alpha1.All {
		for _, conn := range m.registry.List() {
			if err := m.send(conn, flow.ClearAllMessage(), metrics.OperationClearAll); err != nil {
				klog.ErrorS(err, "Failed to clear flows", "switch", conn.ID())
			}
		}
		m.installed = nil
		metrics.InstalledFlowCount.Set(0)
		if s, ok := m.saved[m.options.CrossDomainFlow]; ok && m.bridge != nil {
			mirror = s.descriptor
		}
		return mirror, nil
	}

	s, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	conns := m.targets(s.flow)
	if len(conns) == 0 {
		m.unreachable(s.flow, "remove")
	}
	for _, conn := range conns {
		if err := m.send(conn, s.flow.DeleteMessage(), metrics.OperationDelete); err != nil {
			klog.ErrorS(err, "Failed to remove flow", "flow", name, "switch", conn.ID(),
				"match", s.flow.Match.String(), "priority", s.flow.Priority, "actions", s.flow.ActionsString())
		}
	}
	kept := m.installed[:0]
	for _, f := range m.installed {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(m.installed); i++ {
		m.installed[i] = nil
	}
	m.installed = kept
	metrics.InstalledFlowCount.Set(float64(len(m.installed)))
	if m.isCrossDomain(name) {
		mirror = s.descriptor
	}
	return mirror, nil
}

// OnConnectionUp pushes the saved flows to a newly connected switch.
func (m *Manager) OnConnectionUp(conn binding.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, n := range m.savedOrder {
		s := m.saved[n]
		if s.err != nil {
			continue
		}
		if m.options.ReinstallMatchingNodeOnly && s.flow.NodeID != "" && s.flow.NodeID != conn.ID() {
			continue
		}
		if err := m.send(conn, s.flow.AddMessage(), metrics.OperationAdd); err != nil {
			m.pushFailed(err, s.flow, conn)
			continue
		}
		m.installed = append(m.installed, s.flow)
		count++
	}
	metrics.InstalledFlowCount.Set(float64(len(m.installed)))
	klog.InfoS("Installed saved flows on connected switch", "switch", conn.ID(), "count", count)
}

// OnConnectionDown calls the disconnect handler. The saved and installed sets
// are left untouched.
func (m *Manager) OnConnectionDown(conn binding.Connection) {
	m.mu.Lock()
	handler := m.disconnectHandler
	m.mu.Unlock()

	klog.InfoS("Switch disconnected", "switch", conn.ID())
	if handler != nil {
		handler()
	}
}

// SavedFlows returns the named saved descriptor, or all of them in load order
// when name is "all" or empty.
func (m *Manager) SavedFlows(name string) ([]v1alpha1.FlowDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" || name == v1alpha1.All {
		descriptors := make([]v1alpha1.FlowDescriptor, 0, len(m.savedOrder))
		for _, n := range m.savedOrder {
			descriptors = append(descriptors, *m.saved[n].descriptor.DeepCopy())
		}
		return descriptors, nil
	}
	s, ok := m.saved[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	return []v1alpha1.FlowDescriptor{*s.descriptor.DeepCopy()}, nil
}

// InstalledFlows returns the descriptors of the installed set, in installation
// order.
func (m *Manager) InstalledFlows() []v1alpha1.FlowDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	descriptors := make([]v1alpha1.FlowDescriptor, 0, len(m.installed))
	for _, f := range m.installed {
		descriptors = append(descriptors, *f.Descriptor.DeepCopy())
	}
	return descriptors
}

func (m *Manager) lookup(name string) (*savedFlow, error) {
	s, ok := m.saved[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownName, name)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

func (m *Manager) isCrossDomain(name string) bool {
	return m.bridge != nil && m.options.CrossDomainFlow != "" && name == m.options.CrossDomainFlow
}

// targets returns the connections a flow is pushed to. A flow without a node
// ID targets every connected switch.
func (m *Manager) targets(f *flow.Flow) []binding.Connection {
	if f.NodeID == "" {
		return m.registry.List()
	}
	conn, ok := m.registry.Get(f.NodeID)
	if !ok {
		return nil
	}
	return []binding.Connection{conn}
}

// push must be called with mu held. The flow is recorded once if at least one
// switch accepted it.
func (m *Manager) push(f *flow.Flow) {
	conns := m.targets(f)
	if len(conns) == 0 {
		m.unreachable(f, "install")
		return
	}
	sent := false
	for _, conn := range conns {
		if err := m.send(conn, f.AddMessage(), metrics.OperationAdd); err != nil {
			m.pushFailed(err, f, conn)
			continue
		}
		sent = true
	}
	if sent {
		m.installed = append(m.installed, f)
		metrics.InstalledFlowCount.Set(float64(len(m.installed)))
	}
}

func (m *Manager) send(conn binding.Connection, msg util.Message, operation string) error {
	startTime := time.Now()
	defer func() {
		metrics.FlowOpsLatency.WithLabelValues(operation).Observe(float64(time.Since(startTime).Milliseconds()))
	}()
	if err := conn.Send(msg); err != nil {
		metrics.FlowOpsErrorCount.WithLabelValues(operation).Inc()
		return err
	}
	metrics.FlowOpsCount.WithLabelValues(operation).Inc()
	return nil
}

func (m *Manager) unreachable(f *flow.Flow, operation string) {
	metrics.SwitchUnreachableCount.Inc()
	klog.InfoS("Switch not connected, skipping flow", "operation", operation, "flow", f.Name, "switch", f.NodeID)
}

func (m *Manager) pushFailed(err error, f *flow.Flow, conn binding.Connection) {
	klog.ErrorS(err, "Failed to install flow", "flow", f.Name, "switch", conn.ID(),
		"match", f.Match.String(), "priority", f.Priority, "actions", f.ActionsString())
}

func (m *Manager) mirror(operation string, d *v1alpha1.FlowDescriptor) {
	ctx, cancel := context.WithTimeout(context.Background(), m.options.BridgeTimeout)
	defer cancel()

	var err error
	switch operation {
	case metrics.OperationAdd:
		err = m.bridge.AddFlow(ctx, d)
	case metrics.OperationDelete:
		err = m.bridge.DeleteFlow(ctx, d.NodeID, d.Name)
	}
	if err != nil {
		metrics.BridgeRequestErrorCount.WithLabelValues(operation).Inc()
		klog.ErrorS(err, "Failed to mirror flow to external controller", "operation", operation, "flow", d.Name)
		return
	}
	klog.InfoS("Mirrored flow to external controller", "operation", operation, "flow", d.Name)
}
