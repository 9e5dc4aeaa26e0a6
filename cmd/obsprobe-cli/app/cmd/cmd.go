package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/get"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/onboard"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/remove"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/resolve"
)

func NewObsprobeCliCommand() *cobra.Command {
	obsprobeCliCmd := &cobra.Command{
		Use:   "obsprobe-cli",
		Short: "Obsprobe Command Line Interface",
		Long: `Obsprobe CLI probes services for their observability surface and manages the stored monitoring strategies.

Available Commands:
  • resolve: Detect the monitoring strategy of a service
  • onboard: Resolve, activate and store the strategy of a service
  • get: Show stored strategies
  • delete: Remove a stored strategy

Examples:
  # Probe a service from this machine
  obsprobe-cli resolve http://shop.internal:8080 --local

  # Onboard a service through the API server
  obsprobe-cli onboard http://shop.internal:8080 --name shop --server-url http://obsprobe:3000

  # List stored strategies in production
  obsprobe-cli get --env prod -o yaml
`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			global.ResolveEnv()
		},
	}

	global.AddFlags(obsprobeCliCmd)

	obsprobeCliCmd.AddCommand(resolve.NewResolveCmd())
	obsprobeCliCmd.AddCommand(onboard.NewOnboardCmd())
	obsprobeCliCmd.AddCommand(get.NewGetCmd())
	obsprobeCliCmd.AddCommand(remove.NewDeleteCmd())
	obsprobeCliCmd.AddCommand(newVersionCmd())

	return obsprobeCliCmd
}

// withGoFlags exposes go flags, such as klog's -v, as persistent flags of root.
func withGoFlags(root *cobra.Command, fs *flag.FlagSet) *cobra.Command {
	root.PersistentFlags().AddGoFlagSet(fs)
	return root
}

func Execute() {
	root := withGoFlags(NewObsprobeCliCommand(), flag.CommandLine)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		klog.Flush()
		os.Exit(1)
	}
}
