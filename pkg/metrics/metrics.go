// Copyright 2020 Antrea Authors
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

package metrics

import (
	"sync"

	"k8s.io/component-base/metrics"
	"k8s.io/component-base/metrics/legacyregistry"
	"k8s.io/klog/v2"
)

const (
	metricNamespace = "flow_manager"

	// Operation label values.
	OperationAdd      = "add"
	OperationDelete   = "delete"
	OperationClearAll = "clear_all"
)

var (
	FlowOpsCount = metrics.NewCounterVec(
		&metrics.CounterOpts{
			Namespace:      metricNamespace,
			Name:           "flow_ops_count",
			Help:           "Number of flow operations sent to switches, partitioned by operation type (add, delete and clear_all).",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"operation"},
	)

	FlowOpsErrorCount = metrics.NewCounterVec(
		&metrics.CounterOpts{
			Namespace:      metricNamespace,
			Name:           "flow_ops_error_count",
			Help:           "Number of flow operations which could not be sent to a switch, partitioned by operation type (add, delete and clear_all).",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"operation"},
	)

	FlowOpsLatency = metrics.NewHistogramVec(
		&metrics.HistogramOpts{
			Namespace:      metricNamespace,
			Name:           "flow_ops_latency_milliseconds",
			Help:           "The latency of flow operations, partitioned by operation type (add, delete and clear_all).",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"operation"},
	)

	InstalledFlowCount = metrics.NewGauge(
		&metrics.GaugeOpts{
			Namespace:      metricNamespace,
			Name:           "installed_flow_count",
			Help:           "Number of entries in the installed flow set.",
			StabilityLevel: metrics.ALPHA,
		},
	)

	SavedFlowCount = metrics.NewGaugeVec(
		&metrics.GaugeOpts{
			Namespace:      metricNamespace,
			Name:           "saved_flow_count",
			Help:           "Number of saved flow descriptors, partitioned by whether they compiled successfully.",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"status"},
	)

	SwitchUnreachableCount = metrics.NewCounter(
		&metrics.CounterOpts{
			Namespace:      metricNamespace,
			Name:           "switch_unreachable_count",
			Help:           "Number of flow operations skipped because the target switch was not connected.",
			StabilityLevel: metrics.ALPHA,
		},
	)

	ConnectedSwitchCount = metrics.NewGauge(
		&metrics.GaugeOpts{
			Namespace:      metricNamespace,
			Name:           "connected_switch_count",
			Help:           "Number of OpenFlow switches currently connected.",
			StabilityLevel: metrics.ALPHA,
		},
	)

	BridgeRequestErrorCount = metrics.NewCounterVec(
		&metrics.CounterOpts{
			Namespace:      metricNamespace,
			Name:           "bridge_request_error_count",
			Help:           "Number of failed requests to the external controller, partitioned by operation type (add and delete).",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"operation"},
	)

	PacketInCount = metrics.NewCounterVec(
		&metrics.CounterOpts{
			Namespace:      metricNamespace,
			Name:           "packet_in_count",
			Help:           "Number of packetIn messages logged, partitioned by innermost decoded layer.",
			StabilityLevel: metrics.ALPHA,
		},
		[]string{"layer"},
	)
)

var registerOnce sync.Once

// InitializeMetrics registers all metrics with the legacy registry. It is safe
// to call more than once.
func InitializeMetrics() {
	registerOnce.Do(func() {
		klog.InfoS("Initializing prometheus metrics")
		for _, m := range []struct {
			name      string
			collector metrics.Registerable
		}{
			{"flow_ops_count", FlowOpsCount},
			{"flow_ops_error_count", FlowOpsErrorCount},
			{"flow_ops_latency_milliseconds", FlowOpsLatency},
			{"installed_flow_count", InstalledFlowCount},
			{"saved_flow_count", SavedFlowCount},
			{"switch_unreachable_count", SwitchUnreachableCount},
			{"connected_switch_count", ConnectedSwitchCount},
			{"bridge_request_error_count", BridgeRequestErrorCount},
			{"packet_in_count", PacketInCount},
		} {
			if err := legacyregistry.Register(m.collector); err != nil {
				klog.ErrorS(err, "Failed to register metric", "name", metricNamespace+"_"+m.name)
			}
		}

		// Initialize operation metrics with their labels since those
		// metrics won't come out until observation.
		for _, op := range []string{OperationAdd, OperationDelete, OperationClearAll} {
			FlowOpsCount.WithLabelValues(op)
			FlowOpsErrorCount.WithLabelValues(op)
			FlowOpsLatency.WithLabelValues(op)
		}
		for _, op := range []string{OperationAdd, OperationDelete} {
			BridgeRequestErrorCount.WithLabelValues(op)
		}
	})
}
