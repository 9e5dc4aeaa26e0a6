package onboard

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/printer"
)

type onboardOptions struct {
	name      string
	env       string
	kind      string
	framework string
	output    string

	logs     bool
	lokiURL  string
	tempoURL string
}

func NewOnboardCmd() *cobra.Command {
	opts := &onboardOptions{}

	cmd := &cobra.Command{
		Use:   "onboard <url>",
		Short: "Resolve, activate and store the monitoring strategy of a service",
		Long: `Onboard a service through the API server: the strategy is resolved, activated and stored under the service key.

Examples:
  obsprobe-cli onboard http://shop.internal:8080 --name shop
  obsprobe-cli onboard http://shop.internal:8080 --name shop --logs --loki-url http://loki:3100`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Service name, used as the strategy key")
	cmd.Flags().StringVar(&opts.env, "env", v1.DefaultEnvironment, "Deployment environment")
	cmd.Flags().StringVar(&opts.kind, "type", "web", "Service type")
	cmd.Flags().StringVar(&opts.framework, "framework", "", "Framework hint")
	cmd.Flags().StringVarP(&opts.output, "output", "o", printer.FormatTable, "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&opts.logs, "logs", false, "Also set up Loki and Tempo pipelines")
	cmd.Flags().StringVar(&opts.lokiURL, "loki-url", "", "Loki endpoint, defaults to "+v1.DefaultLokiURL)
	cmd.Flags().StringVar(&opts.tempoURL, "tempo-url", "", "Tempo endpoint, defaults to "+v1.DefaultTempoURL)

	return cmd
}

func (o *onboardOptions) request(url string) *v1.OnboardRequest {
	req := &v1.OnboardRequest{
		URL:       url,
		Name:      o.name,
		Env:       o.env,
		Type:      o.kind,
		Framework: o.framework,
	}

	if o.logs {
		req.Logs = &v1.LogsSpec{Enabled: true, LokiURL: o.lokiURL, TempoURL: o.tempoURL}
	}

	return req
}

func runOnboard(ctx context.Context, out io.Writer, url string, opts *onboardOptions) error {
	c, err := global.NewClient()
	if err != nil {
		return err
	}

	result, err := c.Strategies.Onboard(ctx, opts.request(url))
	if err != nil {
		return errors.Wrap(err, "failed to onboard service")
	}

	return printer.Print(out, opts.output, result, func(w io.Writer) {
		fmt.Fprintln(w, "KEY\tSTRATEGY\tCONFIDENCE\tACTIVATION\tAPPLIED\tMESSAGE")

		status, applied, message := "<none>", false, ""
		if result.Activation != nil {
			status, applied, message = result.Activation.Status, result.Activation.Applied, result.Activation.Message
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", result.Key, printer.OrNone(result.StrategyName()),
			result.Confidence, status, applied, message)
	})
}
