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

// Package apiserver serves the control API of the flow manager.
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/component-base/metrics/legacyregistry"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apiserver/handlers/bridgeflows"
	"antrea.io/flowmanager/pkg/apiserver/handlers/flows"
	"antrea.io/flowmanager/pkg/apiserver/handlers/info"
	binding "antrea.io/flowmanager/pkg/ovs/openflow"
	"antrea.io/flowmanager/pkg/querier"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Config defines the config for the control API server.
type Config struct {
	BindAddress string
	FlowManager querier.FlowManagerQuerier
	Registry    binding.Registry
	// Bridge is nil when no external controller is configured.
	Bridge querier.BridgeQuerier
	// BridgeNode is the switch listed by /bridge/flows when the request does
	// not name one.
	BridgeNode string
}

type APIServer struct {
	server *http.Server
}

func New(config Config) *APIServer {
	return &APIServer{
		server: &http.Server{
			Addr:              config.BindAddress,
			Handler:           NewRouter(config),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewRouter returns the handler serving every API route.
func NewRouter(config Config) *mux.Router {
	router := mux.NewRouter()
	nameRoute := fmt.Sprintf("/{%s}", flows.NameVar)

	router.Path("/flows/saved").Methods(http.MethodGet).HandlerFunc(flows.HandleSaved(config.FlowManager))
	router.Path("/flows/saved" + nameRoute).Methods(http.MethodGet).HandlerFunc(flows.HandleSaved(config.FlowManager))
	router.Path("/flows/installed").Methods(http.MethodGet).HandlerFunc(flows.HandleInstalled(config.FlowManager))
	router.Path("/flows/add" + nameRoute).Methods(http.MethodGet, http.MethodPost).HandlerFunc(flows.HandleAdd(config.FlowManager))
	router.Path("/flows/remove" + nameRoute).Methods(http.MethodGet, http.MethodPost).HandlerFunc(flows.HandleRemove(config.FlowManager))
	router.Path("/bridge/flows").Methods(http.MethodGet).HandlerFunc(bridgeflows.HandleFunc(config.Bridge, config.BridgeNode))
	router.Path("/info").Methods(http.MethodGet).HandlerFunc(info.HandleFunc(config.FlowManager, config.Registry))
	router.Path("/healthz").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Path("/metrics").Methods(http.MethodGet).Handler(legacyregistry.Handler())
	return router
}

// Run serves the API until stopCh is closed, then shuts the server down
// gracefully. It returns an error if the server cannot listen.
func (s *APIServer) Run(stopCh <-chan struct{}) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.serve(listener, stopCh)
}

func (s *APIServer) serve(listener net.Listener, stopCh <-chan struct{}) error {
	errCh := make(chan error, 1)
	go func() {
		klog.InfoS("Starting control API server", "address", listener.Addr().String())
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stopCh:
	}

	klog.InfoS("Stopping control API server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down control API server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
