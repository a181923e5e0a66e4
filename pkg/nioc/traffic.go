/*
Copyright 2026 The niocctl Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package nioc configures Network I/O Control bandwidth shares for the
// infrastructure traffic classes of a vSphere distributed virtual switch.
package nioc

import (
	"strings"

	"github.com/vmware/govmomi/vim25/types"
)

// TrafficType identifies one of the infrastructure traffic classes a
// distributed switch accounts bandwidth for. The values are the key strings
// vCenter uses in DVSConfigInfo.InfrastructureTrafficResourceConfig.
type TrafficType string

const (
	TrafficManagement     TrafficType = "management"
	TrafficFaultTolerance TrafficType = "faultTolerance"
	TrafficVmotion        TrafficType = "vmotion"
	TrafficVirtualMachine TrafficType = "virtualMachine"
	TrafficISCSI          TrafficType = "iSCSI"
	TrafficNFS            TrafficType = "nfs"
	TrafficHBR            TrafficType = "hbr"
	TrafficVSAN           TrafficType = "vsan"
	TrafficVDP            TrafficType = "vdp"
)

// trafficTypes is the closed set of classes vCenter knows about. Lookup in
// the switch configuration is by exact key, never by pattern.
var trafficTypes = []TrafficType{
	TrafficManagement,
	TrafficFaultTolerance,
	TrafficVmotion,
	TrafficVirtualMachine,
	TrafficISCSI,
	TrafficNFS,
	TrafficHBR,
	TrafficVSAN,
	TrafficVDP,
}

// TrafficTypes returns all traffic class keys in the order vCenter reports
// them.
func TrafficTypes() []TrafficType {
	out := make([]TrafficType, len(trafficTypes))
	copy(out, trafficTypes)
	return out
}

// TrafficTypeNames returns the traffic class keys as plain strings, for use
// in flag usage text.
func TrafficTypeNames() []string {
	names := make([]string, len(trafficTypes))
	for i, t := range trafficTypes {
		names[i] = string(t)
	}
	return names
}

// ParseTrafficType maps s, case-insensitively, onto the closed traffic class
// set. Unknown values are usage errors.
func ParseTrafficType(s string) (TrafficType, error) {
	for _, t := range trafficTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", Usagef("unknown traffic class %q, expected one of: %s", s, strings.Join(TrafficTypeNames(), ", "))
}

func (t TrafficType) valid() bool {
	for _, known := range trafficTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ShareLevel is the qualitative or quantitative bandwidth priority of a
// traffic class, mirroring vSphere SharesLevel.
type ShareLevel string

const (
	ShareLevelLow    = ShareLevel(types.SharesLevelLow)
	ShareLevelNormal = ShareLevel(types.SharesLevelNormal)
	ShareLevelHigh   = ShareLevel(types.SharesLevelHigh)
	ShareLevelCustom = ShareLevel(types.SharesLevelCustom)
)

var shareLevels = []ShareLevel{
	ShareLevelLow,
	ShareLevelNormal,
	ShareLevelHigh,
	ShareLevelCustom,
}

// ParseShareLevel maps s, case-insensitively, onto {low, normal, high,
// custom}. Unknown values are usage errors.
func ParseShareLevel(s string) (ShareLevel, error) {
	for _, l := range shareLevels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", Usagef("unknown share level %q, expected one of: low, normal, high, custom", s)
}

func (l ShareLevel) valid() bool {
	for _, known := range shareLevels {
		if l == known {
			return true
		}
	}
	return false
}
