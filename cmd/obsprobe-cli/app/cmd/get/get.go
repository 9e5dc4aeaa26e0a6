package get

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/printer"
	"github.com/neutree-ai/obsprobe/pkg/client"
)

type getOptions struct {
	env      string
	strategy string
	output   string
}

func NewGetCmd() *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show stored monitoring strategies",
		Long: `Show one stored strategy by key, or list all of them.

Examples:
  # List every stored strategy
  obsprobe-cli get

  # List production services scraped by Prometheus
  obsprobe-cli get --env prod --strategy prometheus

  # Show one strategy as YAML
  obsprobe-cli get shop -o yaml`,
		Args:          cobra.RangeArgs(0, 1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := global.NewClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return runGetOne(cmd.Context(), cmd.OutOrStdout(), c, args[0], opts)
			}

			return runList(cmd.Context(), cmd.OutOrStdout(), c, opts)
		},
	}

	cmd.Flags().StringVar(&opts.env, "env", "", "Only list strategies of this environment")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Only list strategies with this name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", printer.FormatTable, "Output format: table, json, yaml")

	return cmd
}

func runGetOne(ctx context.Context, out io.Writer, c *client.Client, key string, opts *getOptions) error {
	strategy, err := c.Strategies.Get(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "failed to get strategy %s", key)
	}

	return printer.Print(out, opts.output, strategy, func(w io.Writer) {
		fmt.Fprintln(w, "KEY\tENV\tSTRATEGY\tCONFIDENCE\tAGE\tDETAILS")

		env := ""
		if strategy.Target != nil {
			env = strategy.Target.Environment
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", key, printer.OrNone(env), printer.OrNone(strategy.StrategyName()),
			strategy.Confidence, printer.FormatAge(strategy.UpdatedAt), strategy.Details)
	})
}

func runList(ctx context.Context, out io.Writer, c *client.Client, opts *getOptions) error {
	records, err := c.Strategies.List(ctx, client.StrategyListOptions{
		Environment: opts.env,
		Strategy:    opts.strategy,
	})
	if err != nil {
		return errors.Wrap(err, "failed to list strategies")
	}

	if records == nil {
		records = []v1.DecisionRecord{}
	}

	if len(records) == 0 && (opts.output == printer.FormatTable || opts.output == "") {
		fmt.Fprintln(out, "No strategies found")
		return nil
	}

	return printer.Print(out, opts.output, records, func(w io.Writer) {
		fmt.Fprintln(w, "KEY\tENV\tURL\tSTRATEGY\tCONFIDENCE\tAGE")

		for i := range records {
			r := &records[i]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Key, printer.OrNone(r.Target.Environment), r.Target.URL,
				printer.OrNone(r.Decision.StrategyName()), r.Decision.Confidence, printer.FormatAge(&r.UpdatedAt))
		}
	})
}
