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

// Package cmd implements the niocctl command line.
package cmd

import (
	goflag "flag"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/akamalov/niocctl/pkg/vclib"
)

// NewNiocctlCommand builds the root command with all subcommands attached.
// in/out are the streams subcommands prompt on and print to.
func NewNiocctlCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cfg := vclib.ConfigFromEnv()

	cmds := &cobra.Command{
		Use:   "niocctl",
		Short: "niocctl configures Network I/O Control on vSphere distributed switches",
		Long: `niocctl reads and sets the Network I/O Control bandwidth shares of the
infrastructure traffic classes on a vSphere distributed virtual switch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmds.SetOut(out)
	cmds.SetErr(errOut)

	flags := cmds.PersistentFlags()
	flags.StringVarP(&cfg.URL, "url", "u", cfg.URL, "vCenter or ESX URL [NIOCCTL_URL]")
	flags.StringVar(&cfg.Username, "username", cfg.Username, "Username, overrides any credential in the URL [NIOCCTL_USERNAME]")
	flags.StringVar(&cfg.Password, "password", cfg.Password, "Password [NIOCCTL_PASSWORD]")
	flags.BoolVarP(&cfg.Insecure, "insecure", "k", cfg.Insecure, "Skip verification of the server certificate [NIOCCTL_INSECURE]")
	flags.StringVar(&cfg.Datacenter, "datacenter", cfg.Datacenter, "Datacenter inventory path [NIOCCTL_DATACENTER]")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	f := NewFactory(&cfg)
	cmds.AddCommand(NewCmdGet(f, out))
	cmds.AddCommand(NewCmdSet(f, in, out))
	cmds.AddCommand(NewCmdVersion(out))

	return cmds
}
