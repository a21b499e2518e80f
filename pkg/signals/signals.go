// Copyright 2022 Antrea Authors
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

// Package signals turns SIGINT and SIGTERM into a stop channel.
package signals

import (
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"
)

var (
	// Buffered so that a second signal can force the exit.
	notifyCh    = make(chan os.Signal, 2)
	stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
)

// RegisterSignalHandlers returns a channel which is closed on the first SIGINT
// or SIGTERM. The process exits with code 1 on the second one.
func RegisterSignalHandlers() <-chan struct{} {
	stopCh := make(chan struct{})
	signal.Notify(notifyCh, stopSignals...)

	go func() {
		sig := <-notifyCh
		klog.InfoS("Received signal, initiating shutdown", "signal", sig)
		close(stopCh)
		sig = <-notifyCh
		klog.InfoS("Received second signal, exiting", "signal", sig)
		os.Exit(1)
	}()

	return stopCh
}

// GenerateStopSignal sends SIGTERM to the handler registered by
// RegisterSignalHandlers.
func GenerateStopSignal() {
	notifyCh <- syscall.SIGTERM
}
