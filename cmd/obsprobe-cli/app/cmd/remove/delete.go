package remove

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
	"github.com/neutree-ai/obsprobe/pkg/client"
)

func NewDeleteCmd() *cobra.Command {
	var ignoreNotFound bool

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored monitoring strategy",
		Long: `Remove the stored strategy for a key. A Prometheus scrape job registered for it is removed as well.

Examples:
  obsprobe-cli delete shop`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := global.NewClient()
			if err != nil {
				return err
			}

			key := args[0]

			err = c.Strategies.Delete(cmd.Context(), key)
			if err != nil {
				if client.IsNotFound(err) && ignoreNotFound {
					fmt.Fprintf(cmd.OutOrStdout(), "strategy %s not found\n", key)
					return nil
				}

				return errors.Wrapf(err, "failed to delete strategy %s", key)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "strategy %s deleted\n", key)

			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreNotFound, "ignore-not-found", false, "Treat a missing strategy as success")

	return cmd
}
