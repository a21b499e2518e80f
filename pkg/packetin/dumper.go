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

// Package packetin logs the packets sent to the controller by the switches.
package packetin

import (
	"fmt"
	"strings"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/metrics"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
)

// PacketIn reasons of OpenFlow 1.5 dumped by the Dumper.
const (
	reasonTableMiss   uint8 = 0
	reasonApplyAction uint8 = 1
)

type Config struct {
	// Verbose dumps every decoded field instead of the layer names.
	Verbose bool
	// MaxLength truncates each message. 0 disables truncation.
	MaxLength int
	// Show lists the layer types to log. Every other packet is ignored.
	Show []string
	// Hide lists the layer types to ignore. Show and Hide are exclusive.
	Hide      []string
	RateLimit rate.Limit
	QueueSize int
}

// PacketInSubscriber is implemented by binding.OFRegistry.
type PacketInSubscriber interface {
	SubscribePacketIn(reason uint8, pktInQueue *binding.PacketInQueue) error
}

// Dumper writes a one-line summary, or a full dump, of each packetIn to the
// log.
type Dumper struct {
	verbose   bool
	maxLength int
	// types is matched against the lower-cased names of the decoded layers.
	types         sets.Set[string]
	showByDefault bool
	queue         *binding.PacketInQueue
	logFn         func(reason uint8, msg string)
}

// ParseLayerTypes splits a list of layer type names separated by commas, pipes
// or spaces.
func ParseLayerTypes(values []string) sets.Set[string] {
	types := sets.New[string]()
	for _, v := range values {
		for _, t := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == '|' || r == ' ' || r == '\t'
		}) {
			types.Insert(strings.ToLower(t))
		}
	}
	return types
}

func NewDumper(config Config) (*Dumper, error) {
	show := ParseLayerTypes(config.Show)
	hide := ParseLayerTypes(config.Hide)
	if show.Len() > 0 && hide.Len() > 0 {
		return nil, fmt.Errorf("cannot both show and hide packet types")
	}
	if config.MaxLength < 0 {
		return nil, fmt.Errorf("invalid maxLength %d", config.MaxLength)
	}
	d := &Dumper{
		verbose:   config.Verbose,
		maxLength: config.MaxLength,
		logFn: func(reason uint8, msg string) {
			klog.InfoS("PacketIn", "reason", reason, "packet", msg)
		},
	}
	if show.Len() > 0 {
		d.types = show
	} else {
		d.types = hide
		d.showByDefault = true
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 1
	}
	limit := config.RateLimit
	if limit == 0 {
		limit = rate.Inf
	}
	d.queue = binding.NewPacketInQueue(queueSize, limit)
	return d, nil
}

// Subscribe registers the Dumper for table-miss packetIns and for packets sent
// by a CONTROLLER action.
func (d *Dumper) Subscribe(subscriber PacketInSubscriber) error {
	for _, reason := range []uint8{reasonTableMiss, reasonApplyAction} {
		if err := subscriber.SubscribePacketIn(reason, d.queue); err != nil {
			return err
		}
	}
	return nil
}

// Run logs queued packetIns until stopCh is closed.
func (d *Dumper) Run(stopCh <-chan struct{}) {
	klog.InfoS("Starting packetIn dumper", "verbose", d.verbose, "types", sets.List(d.types), "showByDefault", d.showByDefault)
	for {
		pktIn := d.queue.GetRateLimited(stopCh)
		if pktIn == nil {
			return
		}
		data, err := pktIn.Data.MarshalBinary()
		if err != nil {
			klog.ErrorS(err, "Failed to serialize packetIn payload", "reason", pktIn.Reason)
			continue
		}
		if msg, ok := d.Describe(data); ok {
			d.logFn(pktIn.Reason, msg)
		}
	}
}

// Describe decodes an Ethernet frame and formats it. It returns false if the
// frame is filtered out by the shown or hidden layer types.
func (d *Dumper) Describe(data []byte) (string, bool) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)
	packetLayers := packet.Layers()

	show := d.showByDefault
	for _, l := range packetLayers {
		if d.types.Has(strings.ToLower(l.LayerType().String())) {
			if d.showByDefault {
				return "", false
			}
			show = true
			break
		}
	}
	if !show {
		return "", false
	}

	innermost := "None"
	var b strings.Builder
	for _, l := range packetLayers {
		if l.LayerType() == gopacket.LayerTypePayload {
			fmt.Fprintf(&b, "[%d bytes]", len(l.LayerContents()))
			break
		}
		innermost = l.LayerType().String()
		fmt.Fprintf(&b, "[%s]", l.LayerType())
	}
	metrics.PacketInCount.WithLabelValues(innermost).Inc()

	msg := b.String()
	if d.verbose {
		msg = packet.Dump()
	}
	return truncate(msg, d.maxLength), true
}

func truncate(msg string, maxLength int) string {
	if maxLength <= 0 || len(msg) <= maxLength {
		return msg
	}
	if maxLength <= 3 {
		return msg[:maxLength]
	}
	return msg[:maxLength-3] + "..."
}
