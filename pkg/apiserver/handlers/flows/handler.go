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

package flows

import (
	"net/http"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/apiserver/handlers"
	"antrea.io/flowmanager/pkg/querier"
)

// NameVar is the route variable holding the flow name.
const NameVar = "name"

func flowName(r *http.Request) string {
	if name, ok := mux.Vars(r)[NameVar]; ok {
		return name
	}
	return v1alpha1.All
}

func writeFlows(w http.ResponseWriter, flows []v1alpha1.FlowDescriptor) {
	if flows == nil {
		flows = []v1alpha1.FlowDescriptor{}
	}
	handlers.WriteJSON(w, http.StatusOK, flows)
}

// HandleSaved returns the saved flow named by the route, or every saved flow.
func HandleSaved(fq querier.FlowQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flows, err := fq.SavedFlows(flowName(r))
		if err != nil {
			handlers.WriteError(w, err)
			return
		}
		writeFlows(w, flows)
	}
}

// HandleInstalled returns the installed set.
func HandleInstalled(fq querier.FlowQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeFlows(w, fq.InstalledFlows())
	}
}

// HandleAdd installs the flow named by the route and returns the installed
// set.
func HandleAdd(fq querier.FlowManagerQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := flowName(r)
		if err := fq.Install(name); err != nil {
			klog.ErrorS(err, "Failed to install flow", "flow", name)
			handlers.WriteError(w, err)
			return
		}
		klog.InfoS("Installed flow", "flow", name, "remote", r.RemoteAddr)
		writeFlows(w, fq.InstalledFlows())
	}
}

// HandleRemove removes the flow named by the route and returns the installed
// set.
func HandleRemove(fq querier.FlowManagerQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := flowName(r)
		if err := fq.Remove(name); err != nil {
			klog.ErrorS(err, "Failed to remove flow", "flow", name)
			handlers.WriteError(w, err)
			return
		}
		klog.InfoS("Removed flow", "flow", name, "remote", r.RemoteAddr)
		writeFlows(w, fq.InstalledFlows())
	}
}
