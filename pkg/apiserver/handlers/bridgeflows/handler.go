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

package bridgeflows

import (
	"fmt"
	"net/http"

	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apiserver/handlers"
	"antrea.io/flowmanager/pkg/querier"
)

type Response struct {
	Node  string   `json:"node,omitempty"`
	Flows []string `json:"flows"`
}

// HandleFunc returns the names of the flows the external controller knows
// for the switch given by the "node" query parameter, or for defaultNode.
// bq may be nil when no external controller is configured.
func HandleFunc(bq querier.BridgeQuerier, defaultNode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bq == nil {
			handlers.WriteError(w, handlers.NewHandlerError(fmt.Errorf("no external controller is configured"), http.StatusNotFound))
			return
		}
		node := r.URL.Query().Get("node")
		if node == "" {
			node = defaultNode
		}
		if node == "" {
			handlers.WriteError(w, handlers.NewHandlerError(fmt.Errorf("missing node query parameter"), http.StatusBadRequest))
			return
		}
		names, err := bq.ListFlows(r.Context(), node)
		if err != nil {
			klog.ErrorS(err, "Failed to list flows on external controller", "node", node)
			handlers.WriteError(w, handlers.NewHandlerError(err, http.StatusBadGateway))
			return
		}
		if names == nil {
			names = []string{}
		}
		handlers.WriteJSON(w, http.StatusOK, Response{Node: node, Flows: names})
	}
}
