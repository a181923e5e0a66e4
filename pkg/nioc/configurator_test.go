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

package nioc_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/akamalov/niocctl/pkg/nioc"
)

type fakeSwitch struct {
	name    string
	version string
	entries []types.DvsHostInfrastructureTrafficResource

	configReads      int
	reconfigures     int
	submittedVersion string
}

func (s *fakeSwitch) Name() string { return s.name }

func (s *fakeSwitch) TrafficConfig(ctx context.Context) (string, []types.DvsHostInfrastructureTrafficResource, error) {
	s.configReads++
	return s.version, copyEntries(s.entries), nil
}

func (s *fakeSwitch) ReconfigureTraffic(ctx context.Context, version string, entries []types.DvsHostInfrastructureTrafficResource) error {
	s.reconfigures++
	s.submittedVersion = version
	if version != s.version {
		return fmt.Errorf("config version %q is stale", version)
	}
	s.entries = copyEntries(entries)
	s.version += "'"
	return nil
}

// copyEntries keeps the fake honest: callers mutating what TrafficConfig
// returned must not reach the stored state without a ReconfigureTraffic.
func copyEntries(in []types.DvsHostInfrastructureTrafficResource) []types.DvsHostInfrastructureTrafficResource {
	out := make([]types.DvsHostInfrastructureTrafficResource, len(in))
	copy(out, in)
	for i := range out {
		if s := out[i].AllocationInfo.Shares; s != nil {
			c := *s
			out[i].AllocationInfo.Shares = &c
		}
	}
	return out
}

type fakePlatform struct {
	switches map[string]*fakeSwitch
	resolves int
}

func (p *fakePlatform) ResolveSwitch(ctx context.Context, name string) (nioc.Switch, error) {
	p.resolves++
	if sw, ok := p.switches[name]; ok {
		return sw, nil
	}
	return nil, &nioc.NotFoundError{Name: name}
}

func newFakePlatform() (*fakePlatform, *fakeSwitch) {
	var entries []types.DvsHostInfrastructureTrafficResource
	for _, t := range nioc.TrafficTypes() {
		entries = append(entries, types.DvsHostInfrastructureTrafficResource{
			Key: string(t),
			AllocationInfo: types.DvsHostInfrastructureTrafficResourceAllocation{
				Shares: &types.SharesInfo{Level: types.SharesLevelNormal, Shares: 50},
			},
		})
	}
	sw := &fakeSwitch{name: "DSwitch", version: "10", entries: entries}
	return &fakePlatform{switches: map[string]*fakeSwitch{"DSwitch": sw}}, sw
}

func shares(t *testing.T, sw *fakeSwitch, key nioc.TrafficType) *types.SharesInfo {
	t.Helper()
	for i := range sw.entries {
		if sw.entries[i].Key == string(key) {
			return sw.entries[i].AllocationInfo.Shares
		}
	}
	t.Fatalf("no entry for %q", key)
	return nil
}

func TestApplyCustomShares(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	got, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelCustom,
		Shares:  150,
	})
	require.NoError(t, err)

	s := shares(t, sw, nioc.TrafficVSAN)
	assert.Equal(t, types.SharesLevelCustom, s.Level)
	assert.Equal(t, int32(150), s.Shares)
	assert.Equal(t, 1, sw.reconfigures)
	assert.Equal(t, "DSwitch", got.Name())
}

func TestApplyNonCustomPreservesShares(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()
	shares(t, sw, nioc.TrafficVSAN).Shares = 9999

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	})
	require.NoError(t, err)

	s := shares(t, sw, nioc.TrafficVSAN)
	assert.Equal(t, types.SharesLevelHigh, s.Level)
	assert.Equal(t, int32(9999), s.Shares, "weight must stay untouched for non-custom levels")
}

func TestApplySharesIgnoredForNonCustomLevel(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	// A supplied weight alongside a non-custom level is accepted, not
	// rejected, and not written.
	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVmotion,
		Level:   nioc.ShareLevelLow,
		Shares:  42,
	})
	require.NoError(t, err)

	s := shares(t, sw, nioc.TrafficVmotion)
	assert.Equal(t, types.SharesLevelLow, s.Level)
	assert.Equal(t, int32(50), s.Shares)
}

func TestApplyLeavesOtherEntriesAlone(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficNFS,
		Level:   nioc.ShareLevelHigh,
	})
	require.NoError(t, err)

	for _, typ := range nioc.TrafficTypes() {
		s := shares(t, sw, typ)
		if typ == nioc.TrafficNFS {
			assert.Equal(t, types.SharesLevelHigh, s.Level)
			continue
		}
		assert.Equal(t, types.SharesLevelNormal, s.Level, "entry %q must not change", typ)
		assert.Equal(t, int32(50), s.Shares, "entry %q must not change", typ)
	}
}

func TestApplyRejectsUnknownTraffic(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficType("bogus"),
		Level:   nioc.ShareLevelHigh,
	})
	assert.True(t, nioc.IsUsage(err), "got %v", err)
	assert.Zero(t, p.resolves, "no remote call before validation")
	assert.Zero(t, sw.reconfigures)
}

func TestApplyRejectsUnknownLevel(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevel("medium"),
	})
	assert.True(t, nioc.IsUsage(err), "got %v", err)
	assert.Zero(t, p.resolves)
	assert.Zero(t, sw.reconfigures)
}

func TestApplyRejectsEmptySwitchRef(t *testing.T) {
	ctx := context.Background()
	p, _ := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	})
	assert.True(t, nioc.IsUsage(err), "got %v", err)
	assert.Zero(t, p.resolves)
}

func TestApplyRejectsNegativeShares(t *testing.T) {
	ctx := context.Background()
	p, _ := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelCustom,
		Shares:  -1,
	})
	assert.True(t, nioc.IsUsage(err), "got %v", err)
	assert.Zero(t, p.resolves)
}

func TestApplyNotFound(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("enoent"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	})
	assert.True(t, nioc.IsNotFound(err), "got %v", err)
	assert.Zero(t, sw.reconfigures)
}

func TestApplyByHandle(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	handle, err := p.ResolveSwitch(ctx, "DSwitch")
	require.NoError(t, err)
	resolvesBefore := p.resolves

	_, err = nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByHandle(handle),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelCustom,
		Shares:  150,
	})
	require.NoError(t, err)

	s := shares(t, sw, nioc.TrafficVSAN)
	assert.Equal(t, types.SharesLevelCustom, s.Level)
	assert.Equal(t, int32(150), s.Shares)
	// The handle's name is re-resolved before mutating, plus once more for
	// the refreshed return value.
	assert.Equal(t, resolvesBefore+2, p.resolves)
}

func TestApplyByHandleGone(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	handle, err := p.ResolveSwitch(ctx, "DSwitch")
	require.NoError(t, err)

	// The switch disappears between resolution and use; the stale handle
	// must not be mutated through.
	delete(p.switches, "DSwitch")

	_, err = nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByHandle(handle),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	})
	assert.True(t, nioc.IsNotFound(err), "got %v", err)
	assert.Zero(t, sw.reconfigures)
}

func TestApplyIdempotent(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()

	change := nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelCustom,
		Shares:  150,
	}

	c := nioc.NewConfigurator(p)
	_, err := c.Apply(ctx, change)
	require.NoError(t, err)
	_, err = c.Apply(ctx, change)
	require.NoError(t, err, "re-applying the same change must succeed against the fresh version token")

	s := shares(t, sw, nioc.TrafficVSAN)
	assert.Equal(t, types.SharesLevelCustom, s.Level)
	assert.Equal(t, int32(150), s.Shares)
	assert.Equal(t, 2, sw.reconfigures)
}

func TestApplySubmitsObservedVersion(t *testing.T) {
	ctx := context.Background()
	p, sw := newFakePlatform()
	sw.version = "42"

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficManagement,
		Level:   nioc.ShareLevelLow,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", sw.submittedVersion)
}

func TestApplyMissingEntry(t *testing.T) {
	ctx := context.Background()
	sw := &fakeSwitch{name: "old", version: "1"} // pre-NIOC switch, empty list
	p := &fakePlatform{switches: map[string]*fakeSwitch{"old": sw}}

	_, err := nioc.NewConfigurator(p).Apply(ctx, nioc.Change{
		Switch:  nioc.ByName("old"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	})
	require.Error(t, err)
	assert.False(t, nioc.IsUsage(err))
	assert.False(t, nioc.IsNotFound(err))
	assert.Zero(t, sw.reconfigures)
}

func TestDescribe(t *testing.T) {
	c := nioc.Change{
		Switch:  nioc.ByName("DSwitch"),
		Traffic: nioc.TrafficVSAN,
		Level:   nioc.ShareLevelHigh,
	}
	assert.Equal(t, `modify traffic "vsan" with share "high" on dvSwitch "DSwitch"`, c.Describe())

	c.Level = nioc.ShareLevelCustom
	c.Shares = 150
	assert.Equal(t, `modify traffic "vsan" with share "custom (150)" on dvSwitch "DSwitch"`, c.Describe())
}
