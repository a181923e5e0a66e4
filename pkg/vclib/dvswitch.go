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

package vclib

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"k8s.io/klog/v2"

	"github.com/akamalov/niocctl/pkg/nioc"
)

// ResolveSwitch implements nioc.Platform. The name is looked up in the
// datacenter's network folder; the result must be a distributed virtual
// switch, plain or VMware flavor.
func (vc *VSphereConnection) ResolveSwitch(ctx context.Context, name string) (nioc.Switch, error) {
	if name == "" {
		return nil, nioc.Usagef("no switch provided")
	}

	finder := find.NewFinder(vc.Client.Client, true)

	var dc *object.Datacenter
	var err error
	if vc.Datacenter != "" {
		dc, err = finder.Datacenter(ctx, vc.Datacenter)
	} else {
		dc, err = finder.DefaultDatacenter(ctx)
	}
	if err != nil {
		return nil, err
	}
	finder.SetDatacenter(dc)

	net, err := finder.Network(ctx, name)
	if err != nil {
		if _, ok := err.(*find.NotFoundError); ok {
			return nil, &nioc.NotFoundError{Name: name}
		}
		return nil, err
	}

	var dvs *object.DistributedVirtualSwitch
	switch n := net.(type) {
	case *object.DistributedVirtualSwitch:
		dvs = n
	case *object.VmwareDistributedVirtualSwitch:
		dvs = &n.DistributedVirtualSwitch
	default:
		return nil, nioc.Usagef("%q is a %s, not a distributed virtual switch", name, net.Reference().Type)
	}

	klog.V(4).Infof("resolved dvSwitch %q to %s", name, dvs.Reference())
	return &DVSwitch{dvs: dvs, name: name}, nil
}

// DVSwitch is a live handle on one distributed virtual switch, implementing
// nioc.Switch.
type DVSwitch struct {
	dvs  *object.DistributedVirtualSwitch
	name string
}

func (s *DVSwitch) Name() string { return s.name }

// TrafficConfig reads the config property and returns its version token and
// infrastructure traffic resource list.
func (s *DVSwitch) TrafficConfig(ctx context.Context) (string, []types.DvsHostInfrastructureTrafficResource, error) {
	info, err := s.configInfo(ctx)
	if err != nil {
		return "", nil, err
	}
	return info.ConfigVersion, info.InfrastructureTrafficResourceConfig, nil
}

// configInfo retrieves the switch config through the property collector. The
// managed object type differs between vCenter ("VmwareDistributedVirtualSwitch")
// and the base API type, and the retrieval destination has to match.
func (s *DVSwitch) configInfo(ctx context.Context) (*types.DVSConfigInfo, error) {
	ref := s.dvs.Reference()
	pc := property.DefaultCollector(s.dvs.Client())

	var config types.BaseDVSConfigInfo
	switch ref.Type {
	case "VmwareDistributedVirtualSwitch":
		var m mo.VmwareDistributedVirtualSwitch
		if err := pc.RetrieveOne(ctx, ref, []string{"config"}, &m); err != nil {
			return nil, err
		}
		config = m.Config
	default:
		var m mo.DistributedVirtualSwitch
		if err := pc.RetrieveOne(ctx, ref, []string{"config"}, &m); err != nil {
			return nil, err
		}
		config = m.Config
	}

	if config == nil {
		return nil, errors.Errorf("dvSwitch %q has no config", s.name)
	}
	return config.GetDVSConfigInfo(), nil
}

// ReconfigureTraffic submits the mutated traffic resource list under the
// given version token and waits for the task. Task failures, including a
// stale version token, are returned unchanged.
func (s *DVSwitch) ReconfigureTraffic(ctx context.Context, version string, entries []types.DvsHostInfrastructureTrafficResource) error {
	spec := &types.VMwareDVSConfigSpec{
		DVSConfigSpec: types.DVSConfigSpec{
			ConfigVersion:                       version,
			InfrastructureTrafficResourceConfig: entries,
		},
	}

	task, err := s.dvs.Reconfigure(ctx, spec)
	if err != nil {
		return err
	}
	return task.Wait(ctx)
}
