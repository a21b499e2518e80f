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

// Package opendaylight implements a client for the flow programmer
// northbound REST API of an OpenDaylight controller.
package opendaylight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
	"antrea.io/flowmanager/pkg/manager"
	"antrea.io/flowmanager/pkg/querier"
	"antrea.io/flowmanager/pkg/version"
)

const (
	defaultContainer = "default"
	defaultNodeType  = "OF"
	defaultTimeout   = 10 * time.Second

	flowProgrammerPath = "controller/nb/v2/flowprogrammer"
	// Limits the size of error bodies copied into returned errors.
	maxErrorBodyLength = 512
)

type Config struct {
	// URL is the base URL of the controller, e.g. "http://odl:8080".
	URL      string
	Username string
	Password string
	// Container defaults to "default".
	Container string
	// NodeType defaults to "OF".
	NodeType string
	// NodeID, if set, replaces the node ID of every descriptor.
	NodeID string
	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration
}

// Node identifies a switch managed by the controller.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// FlowConfig is the static flow representation of the flow programmer API.
// Every match value is a string.
type FlowConfig struct {
	Name        string   `json:"name"`
	Node        Node     `json:"node"`
	InstallInHw string   `json:"installInHw,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	IngressPort string   `json:"ingressPort,omitempty"`
	EtherType   string   `json:"etherType,omitempty"`
	VlanID      string   `json:"vlanId,omitempty"`
	DlSrc       string   `json:"dlSrc,omitempty"`
	DlDst       string   `json:"dlDst,omitempty"`
	NwSrc       string   `json:"nwSrc,omitempty"`
	NwDst       string   `json:"nwDst,omitempty"`
	Actions     []string `json:"actions,omitempty"`
}

type flowConfigList struct {
	FlowConfig []FlowConfig `json:"flowConfig"`
}

// Client talks to a single controller. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	username   string
	password   string
	container  string
	nodeType   string
	nodeID     string
	httpClient *http.Client
}

var (
	_ manager.ControllerBridge = &Client{}
	_ querier.BridgeQuerier     = &Client{}
)

func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("missing OpenDaylight URL")
	}
	baseURL, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid OpenDaylight URL %q: %w", config.URL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid OpenDaylight URL %q: unsupported scheme %q", config.URL, baseURL.Scheme)
	}
	c := &Client{
		baseURL:   baseURL,
		username:  config.Username,
		password:  config.Password,
		container: config.Container,
		nodeType:  config.NodeType,
		nodeID:    config.NodeID,
	}
	if c.container == "" {
		c.container = defaultContainer
	}
	if c.nodeType == "" {
		c.nodeType = defaultNodeType
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}
	return c, nil
}

// FlowConfigFromDescriptor translates a descriptor into the representation
// expected by the controller. Action tokens are forwarded unchanged.
func FlowConfigFromDescriptor(d *v1alpha1.FlowDescriptor, node Node) FlowConfig {
	fc := FlowConfig{
		Name:        d.Name,
		Node:        node,
		InstallInHw: "true",
	}
	if d.Priority != nil {
		fc.Priority = strings.TrimSpace(d.Priority.String())
	}
	for field, value := range d.Match {
		v := strings.TrimSpace(value.String())
		switch field {
		case v1alpha1.MatchInPort:
			fc.IngressPort = v
		case v1alpha1.MatchDLType:
			fc.EtherType = v
		case v1alpha1.MatchDLVlan:
			fc.VlanID = v
		case v1alpha1.MatchDLSrc:
			fc.DlSrc = v
		case v1alpha1.MatchDLDst:
			fc.DlDst = v
		case v1alpha1.MatchNWSrc:
			fc.NwSrc = v
		case v1alpha1.MatchNWDst:
			fc.NwDst = v
		}
	}
	for _, a := range d.Actions {
		fc.Actions = append(fc.Actions, strings.TrimSpace(a))
	}
	return fc
}

// AddFlow installs d as a static flow on the controller.
func (c *Client) AddFlow(ctx context.Context, d *v1alpha1.FlowDescriptor) error {
	node := c.node(d.NodeID)
	fc := FlowConfigFromDescriptor(d, node)
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to marshal flow %q: %w", d.Name, err)
	}
	klog.InfoS("Installing flow on OpenDaylight", "flow", d.Name, "node", node.ID, "actions", fc.Actions)
	resp, err := c.do(ctx, http.MethodPut, c.staticFlowURL(node, d.Name), bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp, "add flow", d.Name)
	}
	return nil
}

// DeleteFlow removes the named static flow. A flow which does not exist is
// not an error.
func (c *Client) DeleteFlow(ctx context.Context, nodeID, name string) error {
	node := c.node(nodeID)
	resp, err := c.do(ctx, http.MethodDelete, c.staticFlowURL(node, name), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		klog.InfoS("Flow is already deleted on OpenDaylight", "flow", name, "node", node.ID)
		return nil
	default:
		return statusError(resp, "delete flow", name)
	}
}

// ListFlows returns the names of the static flows the controller knows for
// nodeID.
func (c *Client) ListFlows(ctx context.Context, nodeID string) ([]string, error) {
	node := c.node(nodeID)
	resp, err := c.do(ctx, http.MethodGet, c.nodeURL(node), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "list flows", node.ID)
	}
	var list flowConfigList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode flow list: %w", err)
	}
	names := make([]string, 0, len(list.FlowConfig))
	for _, fc := range list.FlowConfig {
		names = append(names, fc.Name)
	}
	return names, nil
}

func (c *Client) node(nodeID string) Node {
	if c.nodeID != "" {
		nodeID = c.nodeID
	}
	return Node{ID: nodeID, Type: c.nodeType}
}

func (c *Client) nodeURL(node Node) string {
	return c.baseURL.JoinPath(flowProgrammerPath, c.container, "node", node.Type, node.ID).String()
}

func (c *Client) staticFlowURL(node Node, name string) string {
	return c.baseURL.JoinPath(flowProgrammerPath, c.container, "node", node.Type, node.ID, "staticFlow", name).String()
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, rawURL, err)
	}
	return resp, nil
}

func statusError(resp *http.Response, operation, name string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
	return fmt.Errorf("failed to %s %q: server returned %s: %s", operation, name, resp.Status, strings.TrimSpace(string(body)))
}
