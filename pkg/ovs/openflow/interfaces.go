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
	"antrea.io/libOpenflow/util"
)

// Connection is the control channel to one OpenFlow switch.
type Connection interface {
	// ID returns the identifier of the switch, which is its datapath ID
	// formatted as colon-separated hex bytes.
	ID() string
	// Send writes a single OpenFlow message to the switch. The message is
	// queued, and a nil error does not mean the switch accepted it.
	Send(msg util.Message) error
}

// Registry tracks the switches currently connected to the controller.
type Registry interface {
	// Get returns the live connection of the switch with the given ID.
	Get(id string) (Connection, bool)
	// List returns every live connection, sorted by ID.
	List() []Connection
}

// ConnectionHandler is notified when a switch connects or disconnects. The
// callbacks are invoked from the goroutine serving the switch.
type ConnectionHandler interface {
	OnConnectionUp(conn Connection)
	OnConnectionDown(conn Connection)
}
