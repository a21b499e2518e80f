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

package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/apiserver"
	"antrea.io/flowmanager/pkg/bridge/opendaylight"
	"antrea.io/flowmanager/pkg/config"
	"antrea.io/flowmanager/pkg/log"
	"antrea.io/flowmanager/pkg/manager"
	"antrea.io/flowmanager/pkg/metrics"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
	"antrea.io/flowmanager/pkg/packetin"
	"antrea.io/flowmanager/pkg/signals"
	"antrea.io/flowmanager/pkg/version"
)

// run starts the flow manager with the given options and waits for a
// termination signal, or for a switch to disconnect when
// shutdownOnSwitchDisconnect is set.
func run(o *Options) error {
	klog.InfoS("Starting flow manager", "version", version.GetFullVersion())

	metrics.InitializeMetrics()

	var descriptors []v1alpha1.FlowDescriptor
	if o.config.FlowsFile != "" {
		var err error
		descriptors, err = config.LoadFlowDescriptors(o.fs, o.config.FlowsFile)
		if err != nil {
			return err
		}
	}

	registry := binding.NewOFRegistry(o.config.OFListenAddress)

	apiConfig := apiserver.Config{
		BindAddress: o.config.APIBindAddress,
		Registry:    registry,
	}
	var bridge manager.ControllerBridge
	if o.config.OpenDaylight.URL != "" {
		odlClient, err := opendaylight.NewClient(opendaylight.Config{
			URL:       o.config.OpenDaylight.URL,
			Username:  o.config.OpenDaylight.Username,
			Password:  o.config.OpenDaylight.Password,
			Container: o.config.OpenDaylight.Container,
			NodeType:  o.config.OpenDaylight.NodeType,
			NodeID:    o.config.OpenDaylight.NodeID,
			Timeout:   o.odlTimeout,
		})
		if err != nil {
			return fmt.Errorf("error creating OpenDaylight client: %w", err)
		}
		bridge = odlClient
		apiConfig.Bridge = odlClient
		apiConfig.BridgeNode = o.config.OpenDaylight.NodeID
	}

	flowManager := manager.NewManager(registry, bridge, manager.Options{
		CrossDomainFlow:           o.config.CrossDomainFlow,
		ReinstallMatchingNodeOnly: o.config.ReinstallMatchingNodeOnly,
	})
	flowManager.Load(descriptors)
	registry.AddHandler(flowManager)
	apiConfig.FlowManager = flowManager

	signalCh := signals.RegisterSignalHandlers()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-signalCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	if *o.config.ShutdownOnSwitchDisconnect {
		flowManager.SetDisconnectHandler(func() {
			klog.InfoS("Switch disconnected, stopping flow manager")
			cancel()
		})
	}

	var dumper *packetin.Dumper
	if o.config.PacketInDump.Enable {
		var err error
		dumper, err = packetin.NewDumper(o.packetInDumpConfig())
		if err != nil {
			return fmt.Errorf("error creating packetIn dumper: %w", err)
		}
		if err := dumper.Subscribe(registry); err != nil {
			return fmt.Errorf("error subscribing packetIn dumper: %w", err)
		}
	}

	g, groupCtx := errgroup.WithContext(ctx)
	stopCh := groupCtx.Done()

	log.StartLogFileNumberMonitor(stopCh)

	g.Go(func() error {
		registry.Run(stopCh)
		return nil
	})
	apiServer := apiserver.New(apiConfig)
	g.Go(func() error {
		return apiServer.Run(stopCh)
	})
	if dumper != nil {
		g.Go(func() error {
			dumper.Run(stopCh)
			return nil
		})
	}

	<-stopCh
	klog.InfoS("Stopping flow manager")
	return g.Wait()
}
