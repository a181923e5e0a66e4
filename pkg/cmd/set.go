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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akamalov/niocctl/pkg/nioc"
)

type setOptions struct {
	factory Factory
	in      io.Reader
	out     io.Writer

	traffic string
	level   string
	shares  int32
	dryRun  bool
	yes     bool
}

// NewCmdSet creates the "set" command, the one mutating operation: configure
// the bandwidth share of a single traffic class on a switch.
func NewCmdSet(f Factory, in io.Reader, out io.Writer) *cobra.Command {
	o := &setOptions{factory: f, in: in, out: out}

	cmd := &cobra.Command{
		Use:   "set SWITCH",
		Short: "Set the bandwidth share of one infrastructure traffic class",
		Long: `Set the Network I/O Control bandwidth share of one infrastructure traffic
class on a distributed virtual switch.

The switch is resolved by name, its configuration is read, the one matching
traffic resource entry is rewritten and the whole configuration is submitted
back under the version token it was read with. A concurrent reconfiguration
by another actor makes that token stale and the call fails; rerun to retry.

This changes live QoS behavior, so the change is described and confirmed
before it is applied. Use --yes to skip the prompt, or --dry-run to only see
the description.`,
		Example: `  # Give vSAN traffic a custom weight of 150
  niocctl set DSwitch --traffic vsan --level custom --shares 150

  # Raise vMotion traffic to high shares without prompting
  niocctl set DSwitch --traffic vmotion --level high --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&o.traffic, "traffic", "", "Traffic class, one of: "+strings.Join(nioc.TrafficTypeNames(), ", "))
	cmd.Flags().StringVar(&o.level, "level", "", "Share level, one of: low, normal, high, custom")
	cmd.Flags().Int32Var(&o.shares, "shares", 0, "Share weight, consulted only with --level=custom")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Describe the change without applying it")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Apply without prompting for confirmation")
	cmd.MarkFlagRequired("traffic")
	cmd.MarkFlagRequired("level")

	return cmd
}

func (o *setOptions) run(ctx context.Context, name string) error {
	traffic, err := nioc.ParseTrafficType(o.traffic)
	if err != nil {
		return err
	}
	level, err := nioc.ParseShareLevel(o.level)
	if err != nil {
		return err
	}

	change := nioc.Change{
		Switch:  nioc.ByName(name),
		Traffic: traffic,
		Level:   level,
		Shares:  o.shares,
	}
	if err := change.Validate(); err != nil {
		return err
	}

	if o.dryRun {
		fmt.Fprintf(o.out, "dry-run: %s\n", change.Describe())
		return nil
	}
	if !o.yes && !o.confirm(change) {
		fmt.Fprintln(o.out, "aborted")
		return nil
	}

	platform, cleanup, err := o.factory.Platform(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sw, err := nioc.NewConfigurator(platform).Apply(ctx, change)
	if err != nil {
		return err
	}

	return printTraffic(ctx, o.out, sw)
}

func (o *setOptions) confirm(change nioc.Change) bool {
	fmt.Fprintf(o.out, "%s? (y/N): ", change.Describe())
	s := bufio.NewScanner(o.in)
	if !s.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
