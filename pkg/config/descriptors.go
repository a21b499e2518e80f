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
	"fmt"

	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
)

// LoadFlowDescriptors reads the flow descriptors from a YAML file of the form:
//
//	flows:
//	- name: VlanToDMZ
//	  node_id: "00:00:00:00:00:00:00:01"
//	  priority: 500
//	  match:
//	    in_port: 1
//	    dl_vlan: 1751
//	  actions: ["POP_VLAN", "OUTPUT=20"]
//
// Unknown fields, duplicate names and the reserved name "all" are rejected.
// Descriptors are returned in file order. They are not compiled here, so a
// malformed descriptor only fails when installed.
func LoadFlowDescriptors(fs afero.Fs, path string) ([]v1alpha1.FlowDescriptor, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flows file %s: %w", path, err)
	}
	var list v1alpha1.FlowDescriptorList
	if err := yaml.UnmarshalStrict(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode flows file %s: %w", path, err)
	}
	names := sets.New[string]()
	for _, d := range list.Flows {
		if d.Name == v1alpha1.All {
			return nil, fmt.Errorf("flow name %q is reserved", d.Name)
		}
		if names.Has(d.Name) {
			return nil, fmt.Errorf("duplicate flow name %q in %s", d.Name, path)
		}
		names.Insert(d.Name)
	}
	klog.V(2).InfoS("Loaded flow descriptors", "path", path, "count", len(list.Flows))
	return list.Flows, nil
}
