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

package nioc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi/vim25/types"
	"k8s.io/klog/v2"
)

// Platform is the slice of the vCenter surface the configurator needs. It is
// an explicit handle: callers construct one per session, nothing is
// process-global.
type Platform interface {
	// ResolveSwitch resolves a switch name to a live handle, or returns a
	// NotFoundError.
	ResolveSwitch(ctx context.Context, name string) (Switch, error)
}

// Switch is a live handle on one distributed virtual switch.
type Switch interface {
	// Name returns the inventory name the switch was resolved by.
	Name() string

	// TrafficConfig reads the switch's current configuration version token
	// and its full infrastructure traffic resource list, in the platform's
	// own shape.
	TrafficConfig(ctx context.Context) (version string, entries []types.DvsHostInfrastructureTrafficResource, err error)

	// ReconfigureTraffic submits the mutated list together with the version
	// token it was read under. The platform rejects stale tokens; that
	// failure is returned unchanged.
	ReconfigureTraffic(ctx context.Context, version string, entries []types.DvsHostInfrastructureTrafficResource) error
}

// SwitchRef is the variant over the two accepted switch reference shapes: a
// name, or an already-resolved handle. The zero value means no switch was
// provided and is rejected before any remote call.
type SwitchRef struct {
	name   string
	handle Switch
}

// ByName references a switch by inventory name.
func ByName(name string) SwitchRef { return SwitchRef{name: name} }

// ByHandle references a switch through a previously resolved handle. The
// handle's name is re-resolved before mutating, so behavior is identical to
// passing the name directly.
func ByHandle(sw Switch) SwitchRef { return SwitchRef{handle: sw} }

func (r SwitchRef) refName() string {
	if r.handle != nil {
		return r.handle.Name()
	}
	return r.name
}

// String returns the referenced switch name, or "" for the zero value.
func (r SwitchRef) String() string { return r.refName() }

// Change describes one bandwidth share mutation: set the share level of one
// traffic class on one switch. Shares carries the numeric weight and is
// consulted only when Level is custom; a value supplied alongside another
// level is accepted and ignored.
type Change struct {
	Switch  SwitchRef
	Traffic TrafficType
	Level   ShareLevel
	Shares  int32
}

// Validate rejects malformed changes before any remote call.
func (c Change) Validate() error {
	if c.Switch.refName() == "" {
		return Usagef("no switch provided")
	}
	if !c.Traffic.valid() {
		return Usagef("unknown traffic class %q", string(c.Traffic))
	}
	if !c.Level.valid() {
		return Usagef("unknown share level %q", string(c.Level))
	}
	if c.Level == ShareLevelCustom && c.Shares < 0 {
		return Usagef("share weight must not be negative, got %d", c.Shares)
	}
	return nil
}

// Describe returns the confirmation text for the change, suitable for a
// prompt or a dry-run report.
func (c Change) Describe() string {
	share := string(c.Level)
	if c.Level == ShareLevelCustom {
		share = fmt.Sprintf("%s (%d)", c.Level, c.Shares)
	}
	return fmt.Sprintf("modify traffic %q with share %q on dvSwitch %q", string(c.Traffic), share, c.Switch.refName())
}

// Configurator applies share changes through a Platform.
type Configurator struct {
	platform Platform
}

// NewConfigurator returns a Configurator bound to the given platform handle.
func NewConfigurator(p Platform) *Configurator {
	return &Configurator{platform: p}
}

// Apply validates the change, resolves the switch, rewrites the one matching
// traffic resource entry and submits the reconfiguration. On success it
// re-resolves the switch so the caller sees server-confirmed state.
//
// The submission carries the version token read from the live switch; a
// concurrent reconfiguration by another actor makes the token stale and the
// platform rejects the call. That error, like any other remote failure, is
// returned unchanged. There is no retry and no cleanup: the platform owns
// the atomicity of the reconfigure call.
func (c *Configurator) Apply(ctx context.Context, change Change) (Switch, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}

	name := change.Switch.refName()
	sw, err := c.platform.ResolveSwitch(ctx, name)
	if err != nil {
		return nil, err
	}

	version, entries, err := sw.TrafficConfig(ctx)
	if err != nil {
		return nil, err
	}

	i := findEntry(entries, change.Traffic)
	if i < 0 {
		return nil, errors.Errorf("traffic class %q missing from dvSwitch %q configuration", string(change.Traffic), sw.Name())
	}

	alloc := &entries[i].AllocationInfo
	if alloc.Shares == nil {
		alloc.Shares = new(types.SharesInfo)
	}
	alloc.Shares.Level = types.SharesLevel(change.Level)
	if change.Level == ShareLevelCustom {
		alloc.Shares.Shares = change.Shares
	}

	klog.V(2).Infof("reconfiguring dvSwitch %q: %s (config version %q)", sw.Name(), change.Describe(), version)
	if err := sw.ReconfigureTraffic(ctx, version, entries); err != nil {
		return nil, err
	}

	return c.platform.ResolveSwitch(ctx, sw.Name())
}

func findEntry(entries []types.DvsHostInfrastructureTrafficResource, traffic TrafficType) int {
	for i := range entries {
		if entries[i].Key == string(traffic) {
			return i
		}
	}
	return -1
}
