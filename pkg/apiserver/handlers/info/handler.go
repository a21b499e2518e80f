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

package info

import (
	"net/http"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/apiserver/handlers"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
	"antrea.io/flowmanager/pkg/querier"
)

// FlowManagerInfoResponse is the response of the info endpoint.
type FlowManagerInfoResponse struct {
	Version            string   `json:"version,omitempty"`
	ConnectedSwitches  []string `json:"connectedSwitches"`
	SavedFlowCount     int      `json:"savedFlowCount"`
	InstalledFlowCount int      `json:"installedFlowCount"`
}

// HandleFunc returns the function which reports the version of the flow
// manager, the connected switches and the size of the flow sets.
func HandleFunc(fq querier.FlowQuerier, registry binding.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := FlowManagerInfoResponse{
			Version:            querier.GetVersion(),
			ConnectedSwitches:  []string{},
			InstalledFlowCount: len(fq.InstalledFlows()),
		}
		if saved, err := fq.SavedFlows(v1alpha1.All); err == nil {
			info.SavedFlowCount = len(saved)
		}
		for _, conn := range registry.List() {
			info.ConnectedSwitches = append(info.ConnectedSwitches, conn.ID())
		}
		handlers.WriteJSON(w, http.StatusOK, info)
	}
}
