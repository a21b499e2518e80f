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

package config

import (
	"time"

	"k8s.io/utils/ptr"
)

const (
	DefaultOFListenAddress       = ":6653"
	DefaultAPIBindAddress        = ":8080"
	DefaultODLContainer          = "default"
	DefaultODLNodeType           = "OF"
	DefaultODLTimeout            = 10 * time.Second
	DefaultPacketInDumpMaxLength = 110
	DefaultPacketInDumpRateLimit = 100
	DefaultPacketInDumpQueueSize = 256
	DefaultShutdownOnDisconnect  = true
)

func SetConfigDefaults(conf *FlowManagerConfig) {
	if conf.OFListenAddress == "" {
		conf.OFListenAddress = DefaultOFListenAddress
	}
	if conf.APIBindAddress == "" {
		conf.APIBindAddress = DefaultAPIBindAddress
	}
	if conf.ShutdownOnSwitchDisconnect == nil {
		conf.ShutdownOnSwitchDisconnect = ptr.To(DefaultShutdownOnDisconnect)
	}
	if conf.OpenDaylight.Container == "" {
		conf.OpenDaylight.Container = DefaultODLContainer
	}
	if conf.OpenDaylight.NodeType == "" {
		conf.OpenDaylight.NodeType = DefaultODLNodeType
	}
	if conf.OpenDaylight.Timeout == "" {
		conf.OpenDaylight.Timeout = DefaultODLTimeout.String()
	}
	if conf.PacketInDump.MaxLength == nil {
		conf.PacketInDump.MaxLength = ptr.To(DefaultPacketInDumpMaxLength)
	}
	if conf.PacketInDump.RateLimit == 0 {
		conf.PacketInDump.RateLimit = DefaultPacketInDumpRateLimit
	}
	if conf.PacketInDump.QueueSize == 0 {
		conf.PacketInDump.QueueSize = DefaultPacketInDumpQueueSize
	}
}
