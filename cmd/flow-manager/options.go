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
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/config"
	"antrea.io/flowmanager/pkg/packetin"
)

type Options struct {
	// The path of configuration file.
	configFile string
	// The configuration object
	config *config.FlowManagerConfig
	// fs is used to read the configuration and flows files.
	fs afero.Fs
	// Parsed openDaylight.timeout.
	odlTimeout time.Duration
}

func newOptions() *Options {
	return &Options{
		config: new(config.FlowManagerConfig),
		fs:     afero.NewOsFs(),
	}
}

// addFlags adds flags to fs and binds them to options.
func (o *Options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", o.configFile, "The path to the configuration file")
}

// complete completes all the required options.
func (o *Options) complete(args []string) error {
	if len(o.configFile) > 0 {
		c, err := o.loadConfigFromFile(o.configFile)
		if err != nil {
			return err
		}
		o.config = c
	}
	o.setDefaults()
	return nil
}

// validate validates all the required options. It must be called after complete.
func (o *Options) validate(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no positional arguments are supported")
	}
	if _, _, err := net.SplitHostPort(o.config.OFListenAddress); err != nil {
		return fmt.Errorf("ofListenAddress %s is invalid: %w", o.config.OFListenAddress, err)
	}
	if _, _, err := net.SplitHostPort(o.config.APIBindAddress); err != nil {
		return fmt.Errorf("apiBindAddress %s is invalid: %w", o.config.APIBindAddress, err)
	}
	if o.config.FlowsFile == "" {
		klog.InfoS("No flowsFile configured, the flow manager will start without saved flows")
	}
	if err := o.validateOpenDaylightConfig(); err != nil {
		return err
	}
	return o.validatePacketInDumpConfig()
}

func (o *Options) validateOpenDaylightConfig() error {
	odl := o.config.OpenDaylight
	if odl.URL == "" {
		if o.config.CrossDomainFlow != "" {
			return fmt.Errorf("crossDomainFlow %s requires openDaylight.url", o.config.CrossDomainFlow)
		}
		return nil
	}
	u, err := url.Parse(odl.URL)
	if err != nil {
		return fmt.Errorf("openDaylight.url %s is invalid: %w", odl.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("openDaylight.url %s is invalid: scheme must be http or https", odl.URL)
	}
	timeout, err := time.ParseDuration(odl.Timeout)
	if err != nil {
		return fmt.Errorf("openDaylight.timeout %s is invalid: %w", odl.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("openDaylight.timeout must be positive")
	}
	o.odlTimeout = timeout
	return nil
}

func (o *Options) validatePacketInDumpConfig() error {
	dump := o.config.PacketInDump
	if !dump.Enable {
		return nil
	}
	if packetin.ParseLayerTypes(dump.Show).Len() > 0 && packetin.ParseLayerTypes(dump.Hide).Len() > 0 {
		return fmt.Errorf("packetInDump.show and packetInDump.hide cannot both be set")
	}
	if *dump.MaxLength < 0 {
		return fmt.Errorf("packetInDump.maxLength %d is invalid", *dump.MaxLength)
	}
	if dump.RateLimit < 0 {
		return fmt.Errorf("packetInDump.rateLimit %v is invalid", dump.RateLimit)
	}
	if dump.QueueSize < 0 {
		return fmt.Errorf("packetInDump.queueSize %d is invalid", dump.QueueSize)
	}
	return nil
}

func (o *Options) loadConfigFromFile(file string) (*config.FlowManagerConfig, error) {
	data, err := afero.ReadFile(o.fs, file)
	if err != nil {
		return nil, err
	}

	var c config.FlowManagerConfig
	err = yaml.UnmarshalStrict(data, &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (o *Options) setDefaults() {
	config.SetConfigDefaults(o.config)
}

func (o *Options) packetInDumpConfig() packetin.Config {
	dump := o.config.PacketInDump
	return packetin.Config{
		Verbose:   dump.Verbose,
		MaxLength: *dump.MaxLength,
		Show:      dump.Show,
		Hide:      dump.Hide,
		RateLimit: rate.Limit(dump.RateLimit),
		QueueSize: dump.QueueSize,
	}
}
