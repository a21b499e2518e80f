// Copyright 2019 Antrea Authors
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

package openflow

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"antrea.io/libOpenflow/openflow15"
	"antrea.io/libOpenflow/util"
	"antrea.io/ofnet/ofctrl"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/metrics"
)

// ofSwitchConnection implements Connection.
type ofSwitchConnection struct {
	id string
	sw *ofctrl.OFSwitch
}

func (c *ofSwitchConnection) ID() string {
	return c.id
}

func (c *ofSwitchConnection) Send(msg util.Message) error {
	return c.sw.Send(msg)
}

// OFRegistry accepts connections from OpenFlow switches and implements
// Registry on top of them. It is the ofctrl.AppInterface of the controller it
// owns.
type OFRegistry struct {
	sync.RWMutex
	listenAddr string
	controller *ofctrl.Controller
	conns      map[string]Connection
	handlers   []ConnectionHandler
	// pktConsumers is a map from PacketIn reason to the queue receiving the
	// packets.
	pktConsumers sync.Map
}

var _ Registry = &OFRegistry{}

// NewOFRegistry returns a registry which listens for switches on listenAddr,
// e.g. ":6653", once Run is called.
func NewOFRegistry(listenAddr string) *OFRegistry {
	configureOFLogs()
	r := &OFRegistry{
		listenAddr: listenAddr,
		conns:      make(map[string]Connection),
	}
	r.controller = ofctrl.NewController(r)
	return r
}

// AddHandler registers a handler for connection events. It must be called
// before Run.
func (r *OFRegistry) AddHandler(h ConnectionHandler) {
	r.Lock()
	defer r.Unlock()
	r.handlers = append(r.handlers, h)
}

// Run accepts switch connections until stopCh is closed.
func (r *OFRegistry) Run(stopCh <-chan struct{}) {
	klog.InfoS("Listening for OpenFlow switches", "address", r.listenAddr)
	go r.controller.Listen(r.listenAddr)
	<-stopCh
	r.controller.Delete()
}

func (r *OFRegistry) Get(id string) (Connection, bool) {
	r.RLock()
	defer r.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

func (r *OFRegistry) List() []Connection {
	r.RLock()
	defer r.RUnlock()
	conns := make([]Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].ID() < conns[j].ID()
	})
	return conns
}

// SwitchConnected is a callback when a remote OFSwitch is connected.
func (r *OFRegistry) SwitchConnected(sw *ofctrl.OFSwitch) {
	r.connectionUp(&ofSwitchConnection{id: sw.DPID().String(), sw: sw})
}

// SwitchDisconnected is a callback when a remote OFSwitch is disconnected.
func (r *OFRegistry) SwitchDisconnected(sw *ofctrl.OFSwitch) {
	r.connectionDown(sw.DPID().String())
}

func (r *OFRegistry) connectionUp(conn Connection) {
	r.Lock()
	r.conns[conn.ID()] = conn
	count := len(r.conns)
	handlers := append([]ConnectionHandler(nil), r.handlers...)
	r.Unlock()

	metrics.ConnectedSwitchCount.Set(float64(count))
	klog.InfoS("OFSwitch is connected", "switch", conn.ID())
	for _, h := range handlers {
		h.OnConnectionUp(conn)
	}
}

func (r *OFRegistry) connectionDown(id string) {
	r.Lock()
	conn, ok := r.conns[id]
	delete(r.conns, id)
	count := len(r.conns)
	handlers := append([]ConnectionHandler(nil), r.handlers...)
	r.Unlock()

	metrics.ConnectedSwitchCount.Set(float64(count))
	klog.InfoS("OFSwitch is disconnected", "switch", id)
	if !ok {
		return
	}
	for _, h := range handlers {
		h.OnConnectionDown(conn)
	}
}

// PacketRcvd is a callback when a packetIn is received on ofctrl.OFSwitch.
func (r *OFRegistry) PacketRcvd(sw *ofctrl.OFSwitch, packet *ofctrl.PacketIn) {
	klog.V(4).InfoS("Received packetIn", "reason", packet.Reason)
	v, found := r.pktConsumers.Load(packet.Reason)
	if !found {
		return
	}
	pktInQueue, _ := v.(*PacketInQueue)
	if !pktInQueue.AddOrDrop(packet) {
		klog.V(2).InfoS("PacketIn queue is full, dropping packet", "reason", packet.Reason)
	}
}

// MultipartReply is a callback when multipartReply message is received on ofctrl.OFSwitch.
func (r *OFRegistry) MultipartReply(sw *ofctrl.OFSwitch, rep *openflow15.MultipartReply) {
}

// FlowGraphEnabledOnSwitch returns false: flows are sent as raw FlowMod
// messages, ofctrl does not need to track them.
func (r *OFRegistry) FlowGraphEnabledOnSwitch() bool {
	return false
}

func (r *OFRegistry) TLVMapEnabledOnSwitch() bool {
	return false
}

// SubscribePacketIn sends every packetIn with the given reason to pktInQueue.
func (r *OFRegistry) SubscribePacketIn(reason uint8, pktInQueue *PacketInQueue) error {
	_, exist := r.pktConsumers.Load(reason)
	if exist {
		return fmt.Errorf("packetIn reason %d already exists", reason)
	}
	r.pktConsumers.Store(reason, pktInQueue)
	return nil
}

type PacketInQueue struct {
	rateLimiter *rate.Limiter
	packetsCh   chan *ofctrl.PacketIn
}

func NewPacketInQueue(size int, r rate.Limit) *PacketInQueue {
	return &PacketInQueue{rateLimiter: rate.NewLimiter(r, 1), packetsCh: make(chan *ofctrl.PacketIn, size)}
}

func (q *PacketInQueue) AddOrDrop(packet *ofctrl.PacketIn) bool {
	select {
	case q.packetsCh <- packet:
		return true
	default:
		// Channel is full.
		return false
	}
}

// GetRateLimited blocks until the rate limiter allows a packet and one is
// queued. It returns nil when stopCh is closed.
func (q *PacketInQueue) GetRateLimited(stopCh <-chan struct{}) *ofctrl.PacketIn {
	when := q.rateLimiter.Reserve().Delay()
	t := time.NewTimer(when)
	defer t.Stop()

	select {
	case <-stopCh:
		return nil
	case <-t.C:
	}
	select {
	case <-stopCh:
		return nil
	case packet := <-q.packetsCh:
		return packet
	}
}
