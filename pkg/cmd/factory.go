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

package cmd

import (
	"context"

	"github.com/akamalov/niocctl/pkg/nioc"
	"github.com/akamalov/niocctl/pkg/vclib"
)

// Factory hands subcommands their platform handle. Tests substitute a fake;
// the real one connects lazily so commands that never reach the platform
// (dry-run, declined prompt) make no remote calls.
type Factory interface {
	Platform(ctx context.Context) (nioc.Platform, func(), error)
}

// NewFactory returns a Factory that connects to vCenter with cfg. The
// returned cleanup func logs out the session.
func NewFactory(cfg *vclib.Config) Factory {
	return &connectFactory{cfg: cfg}
}

type connectFactory struct {
	cfg *vclib.Config
}

func (f *connectFactory) Platform(ctx context.Context) (nioc.Platform, func(), error) {
	vc, err := vclib.Connect(ctx, *f.cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		vc.Logout(context.Background())
	}
	return vc, cleanup, nil
}
