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

package querier

import (
	"context"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/version"
)

// FlowQuerier is implemented by manager.Manager.
type FlowQuerier interface {
	SavedFlows(name string) ([]v1alpha1.FlowDescriptor, error)
	InstalledFlows() []v1alpha1.FlowDescriptor
}

// FlowManagerQuerier exposes the flow lifecycle operations to the API server.
type FlowManagerQuerier interface {
	FlowQuerier
	Install(name string) error
	Remove(name string) error
}

// BridgeQuerier lists the flows known to the external controller.
type BridgeQuerier interface {
	ListFlows(ctx context.Context, nodeID string) ([]string, error)
}

// GetVersion gets current version.
func GetVersion() string {
	return version.GetFullVersion()
}
