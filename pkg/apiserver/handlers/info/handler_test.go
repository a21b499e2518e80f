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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
	oftest "antrea.io/flowmanager/pkg/ovs/openflow/testing"
	queriertest "antrea.io/flowmanager/pkg/querier/testing"
)

func TestHandleFunc(t *testing.T) {
	ctrl := gomock.NewController(t)
	fq := queriertest.NewMockFlowManagerQuerier(ctrl)
	registry := oftest.NewMockRegistry(ctrl)
	conn := oftest.NewMockConnection(ctrl)

	fq.EXPECT().SavedFlows(v1alpha1.All).Return([]v1alpha1.FlowDescriptor{{Name: "a"}, {Name: "b"}}, nil)
	fq.EXPECT().InstalledFlows().Return([]v1alpha1.FlowDescriptor{{Name: "a"}})
	registry.EXPECT().List().Return([]binding.Connection{conn})
	conn.EXPECT().ID().Return("00:00:00:00:00:00:00:01")

	req, err := http.NewRequest(http.MethodGet, "", nil)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	HandleFunc(fq, registry).ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp FlowManagerInfoResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, FlowManagerInfoResponse{
		Version:            "UNKNOWN",
		ConnectedSwitches:  []string{"00:00:00:00:00:00:00:01"},
		SavedFlowCount:     2,
		InstalledFlowCount: 1,
	}, resp)
}
