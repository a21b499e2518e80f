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

package flow

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"antrea.io/libOpenflow/openflow15"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/sets"
	utilnet "k8s.io/utils/net"

	"antrea.io/flowmanager/pkg/apis/flow/v1alpha1"
)

const (
	ethTypeIPv4 uint16 = 0x0800
	maxEthType         = 0xffff
)

// Match is the device-level match of a compiled flow. Nil or empty fields are
// wildcards.
type Match struct {
	InPort  *uint32
	EthType *uint16
	EthSrc  net.HardwareAddr
	EthDst  net.HardwareAddr
	VLANID  *uint16
	IPSrc   *net.IPNet
	IPDst   *net.IPNet
}

var errNotString = errors.New("expected a string value")

// buildMatch converts every recognized field independently. A field that fails
// to convert is left out of the match and reported as a warning.
func buildMatch(fields map[string]intstr.IntOrString) (Match, []ConversionWarning) {
	var m Match
	var warnings []ConversionWarning
	warn := func(field string, value intstr.IntOrString, err error) {
		warnings = append(warnings, ConversionWarning{Field: field, Value: value.String(), Err: err})
	}

	for _, field := range sets.List(sets.KeySet(fields)) {
		value := fields[field]
		switch field {
		case v1alpha1.MatchInPort:
			port, err := parseUint(value, 10, 32)
			if err == nil && port > uint64(openflow15.P_MAX) {
				err = fmt.Errorf("port %d out of range", port)
			}
			if err != nil {
				warn(field, value, err)
				continue
			}
			p := uint32(port)
			m.InPort = &p
		case v1alpha1.MatchDLType:
			ethType, err := parseUint(value, 16, 16)
			if err == nil && ethType > maxEthType {
				err = fmt.Errorf("ether type %d out of range", ethType)
			}
			if err != nil {
				warn(field, value, err)
				continue
			}
			t := uint16(ethType)
			m.EthType = &t
		case v1alpha1.MatchDLSrc, v1alpha1.MatchDLDst:
			if value.Type != intstr.String {
				warn(field, value, errNotString)
				continue
			}
			mac, err := parseMAC(value.StrVal)
			if err != nil {
				warn(field, value, err)
				continue
			}
			if field == v1alpha1.MatchDLSrc {
				m.EthSrc = mac
			} else {
				m.EthDst = mac
			}
		case v1alpha1.MatchDLVlan:
			vid, err := parseUint(value, 10, 16)
			if err == nil && vid > maxVLANID {
				err = fmt.Errorf("VLAN ID %d out of range", vid)
			}
			if err != nil {
				warn(field, value, err)
				continue
			}
			v := uint16(vid)
			m.VLANID = &v
		case v1alpha1.MatchNWSrc, v1alpha1.MatchNWDst:
			if value.Type != intstr.String {
				warn(field, value, errNotString)
				continue
			}
			ipNet, err := parseIPv4Prefix(value.StrVal)
			if err != nil {
				warn(field, value, err)
				continue
			}
			if field == v1alpha1.MatchNWSrc {
				m.IPSrc = ipNet
			} else {
				m.IPDst = ipNet
			}
		default:
			warn(field, value, fmt.Errorf("unknown match field"))
		}
	}

	// IPv4 address fields require an IPv4 ether type.
	if m.IPSrc != nil || m.IPDst != nil {
		if m.EthType == nil {
			t := ethTypeIPv4
			m.EthType = &t
		} else if *m.EthType != ethTypeIPv4 {
			for _, field := range []string{v1alpha1.MatchNWSrc, v1alpha1.MatchNWDst} {
				if v, ok := fields[field]; ok {
					warn(field, v, fmt.Errorf("requires %s=0x%x", v1alpha1.MatchDLType, ethTypeIPv4))
				}
			}
			m.IPSrc, m.IPDst = nil, nil
		}
	}
	return m, warnings
}

// parseUint accepts both integer and string values. Strings are parsed in the
// given base; a "0x" prefix is allowed for base 16.
func parseUint(value intstr.IntOrString, base int, bitSize int) (uint64, error) {
	if value.Type == intstr.Int {
		if value.IntVal < 0 {
			return 0, fmt.Errorf("negative value %d", value.IntVal)
		}
		return uint64(value.IntVal), nil
	}
	s := strings.TrimSpace(value.StrVal)
	if base == 16 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	return strconv.ParseUint(s, base, bitSize)
}

// parseIPv4Prefix accepts a CIDR or a bare address, which is taken as a /32.
func parseIPv4Prefix(s string) (*net.IPNet, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		ip := utilnet.ParseIPSloppy(s)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("invalid IPv4 address %q", s)
		}
		return &net.IPNet{IP: ip.To4(), Mask: net.CIDRMask(32, 32)}, nil
	}
	_, ipNet, err := utilnet.ParseCIDRSloppy(s)
	if err != nil {
		return nil, err
	}
	if !utilnet.IsIPv4CIDR(ipNet) {
		return nil, fmt.Errorf("%q is not an IPv4 prefix", s)
	}
	return ipNet, nil
}

// String formats the match the way ovs-ofctl prints it.
func (m Match) String() string {
	var parts []string
	if m.InPort != nil {
		parts = append(parts, fmt.Sprintf("in_port=%d", *m.InPort))
	}
	if m.EthType != nil {
		parts = append(parts, fmt.Sprintf("dl_type=0x%04x", *m.EthType))
	}
	if m.VLANID != nil {
		parts = append(parts, fmt.Sprintf("dl_vlan=%d", *m.VLANID))
	}
	if m.EthSrc != nil {
		parts = append(parts, fmt.Sprintf("dl_src=%s", m.EthSrc))
	}
	if m.EthDst != nil {
		parts = append(parts, fmt.Sprintf("dl_dst=%s", m.EthDst))
	}
	if m.IPSrc != nil {
		parts = append(parts, fmt.Sprintf("nw_src=%s", m.IPSrc))
	}
	if m.IPDst != nil {
		parts = append(parts, fmt.Sprintf("nw_dst=%s", m.IPDst))
	}
	return strings.Join(parts, ",")
}

func (m Match) fields() []openflow15.MatchField {
	var fields []openflow15.MatchField
	if m.InPort != nil {
		fields = append(fields, *openflow15.NewInPortField(*m.InPort))
	}
	if m.EthType != nil {
		fields = append(fields, *openflow15.NewEthTypeField(*m.EthType))
	}
	if m.VLANID != nil {
		fields = append(fields, *openflow15.NewVlanIdField(*m.VLANID, nil))
	}
	if m.EthSrc != nil {
		fields = append(fields, *openflow15.NewEthSrcField(m.EthSrc, nil))
	}
	if m.EthDst != nil {
		fields = append(fields, *openflow15.NewEthDstField(m.EthDst, nil))
	}
	if m.IPSrc != nil {
		fields = append(fields, *openflow15.NewIpv4SrcField(m.IPSrc.IP, prefixMask(m.IPSrc)))
	}
	if m.IPDst != nil {
		fields = append(fields, *openflow15.NewIpv4DstField(m.IPDst.IP, prefixMask(m.IPDst)))
	}
	return fields
}

// prefixMask returns nil for a host prefix, which is matched exactly.
func prefixMask(ipNet *net.IPNet) *net.IP {
	if ones, bits := ipNet.Mask.Size(); ones == bits {
		return nil
	}
	mask := net.IP(ipNet.Mask)
	return &mask
}
