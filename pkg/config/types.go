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

type FlowManagerConfig struct {
	// Address the OpenFlow controller listens on for switch connections.
	// Defaults to ":6653".
	OFListenAddress string `yaml:"ofListenAddress,omitempty"`
	// Address the control API listens on. Defaults to ":8080".
	APIBindAddress string `yaml:"apiBindAddress,omitempty"`
	// Path of the YAML file holding the flow descriptors.
	FlowsFile string `yaml:"flowsFile,omitempty"`
	// Name of the flow which is also installed on the OpenDaylight
	// controller. Requires openDaylight.url.
	CrossDomainFlow string `yaml:"crossDomainFlow,omitempty"`
	// Stop the flow manager when a switch disconnects. Defaults to true.
	ShutdownOnSwitchDisconnect *bool `yaml:"shutdownOnSwitchDisconnect,omitempty"`
	// Push to a newly connected switch only the flows whose node ID is empty
	// or matches the switch. By default, every saved flow is pushed.
	ReinstallMatchingNodeOnly bool               `yaml:"reinstallMatchingNodeOnly,omitempty"`
	OpenDaylight              OpenDaylightConfig `yaml:"openDaylight,omitempty"`
	PacketInDump              PacketInDumpConfig `yaml:"packetInDump,omitempty"`
}

type OpenDaylightConfig struct {
	// Base URL of the controller, e.g. "http://192.168.56.101:8080".
	URL      string `yaml:"url,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// Defaults to "default".
	Container string `yaml:"container,omitempty"`
	// Defaults to "OF".
	NodeType string `yaml:"nodeType,omitempty"`
	// Node ID used for every request instead of the node ID of the flow.
	NodeID string `yaml:"nodeID,omitempty"`
	// Timeout of each request, as a duration string. Defaults to "10s".
	Timeout string `yaml:"timeout,omitempty"`
}

type PacketInDumpConfig struct {
	Enable bool `yaml:"enable,omitempty"`
	// Dump every decoded field instead of the layer names.
	Verbose bool `yaml:"verbose,omitempty"`
	// Maximum length of a logged message. Defaults to 110, 0 disables
	// truncation.
	MaxLength *int `yaml:"maxLength,omitempty"`
	// Layer types to log, e.g. ["arp", "tcp"]. Exclusive with hide.
	Show []string `yaml:"show,omitempty"`
	// Layer types to ignore. Exclusive with show.
	Hide []string `yaml:"hide,omitempty"`
	// Maximum number of packets logged per second. Defaults to 100.
	RateLimit float64 `yaml:"rateLimit,omitempty"`
	// Number of packets buffered before dropping. Defaults to 256.
	QueueSize int `yaml:"queueSize,omitempty"`
}
