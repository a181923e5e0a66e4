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
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akamalov/niocctl/pkg/nioc"
)

// NewCmdGet creates the "get" command: list the current share configuration
// of every traffic class on a switch.
func NewCmdGet(f Factory, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "get SWITCH",
		Short:   "List the bandwidth shares of all infrastructure traffic classes",
		Example: "  niocctl get DSwitch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			platform, cleanup, err := f.Platform(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sw, err := platform.ResolveSwitch(ctx, args[0])
			if err != nil {
				return err
			}
			return printTraffic(ctx, out, sw)
		},
	}
}

func printTraffic(ctx context.Context, out io.Writer, sw nioc.Switch) error {
	_, entries, err := sw.TrafficConfig(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TRAFFIC\tLEVEL\tSHARES\tLIMIT\tRESERVATION\n")
	for _, e := range entries {
		level, shares := "-", "-"
		if s := e.AllocationInfo.Shares; s != nil {
			level = string(s.Level)
			shares = strconv.Itoa(int(s.Shares))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Key, level, shares,
			int64OrDash(e.AllocationInfo.Limit),
			int64OrDash(e.AllocationInfo.Reservation))
	}
	return tw.Flush()
}

func int64OrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
