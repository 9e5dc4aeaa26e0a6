package resolve

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/printer"
	"github.com/neutree-ai/obsprobe/internal/resolver"
)

type resolveOptions struct {
	name      string
	env       string
	kind      string
	framework string
	output    string

	local    bool
	mode     string
	timeout  time.Duration
	insecure bool
}

func NewResolveCmd() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Detect the monitoring strategy of a service",
		Long: `Probe a service and print the monitoring strategy that fits it. Nothing is activated or stored.

With --local the probes run from this machine, otherwise the API server runs them.

Examples:
  obsprobe-cli resolve http://shop.internal:8080 --local
  obsprobe-cli resolve https://billing.example.com --name billing -o json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Service name")
	cmd.Flags().StringVar(&opts.env, "env", v1.DefaultEnvironment, "Deployment environment")
	cmd.Flags().StringVar(&opts.kind, "type", "", "Service type hint, e.g. web")
	cmd.Flags().StringVar(&opts.framework, "framework", "", "Framework hint, e.g. spring")
	cmd.Flags().StringVarP(&opts.output, "output", "o", printer.FormatTable, "Output format: table, json, yaml")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Run the probes from this machine instead of the API server")
	cmd.Flags().StringVar(&opts.mode, "mode", string(resolver.ModeSequential), "Probe mode for --local: sequential or parallel")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "Overall resolution timeout")

	return cmd
}

func (o *resolveOptions) request(url string) *v1.OnboardRequest {
	return &v1.OnboardRequest{
		URL:       url,
		Name:      o.name,
		Env:       o.env,
		Type:      o.kind,
		Framework: o.framework,
	}
}

func runResolve(ctx context.Context, out io.Writer, url string, opts *resolveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	req := opts.request(url)

	var (
		decision *v1.MonitoringDecision
		err      error
	)

	if opts.local {
		decision, err = resolveLocal(ctx, req, opts)
	} else {
		decision, err = resolveRemote(ctx, req)
	}

	if err != nil {
		return err
	}

	return PrintDecision(out, opts.output, req.Target().Key(), decision)
}

func resolveLocal(ctx context.Context, req *v1.OnboardRequest, opts *resolveOptions) (*v1.MonitoringDecision, error) {
	mode := resolver.Mode(opts.mode)
	if mode != resolver.ModeSequential && mode != resolver.ModeParallel {
		return nil, errors.Errorf("unsupported mode %q", opts.mode)
	}

	cfg := resolver.DefaultConfig()
	cfg.Mode = mode

	transport := resolver.NewTransport(ctx, resolver.TransportOptions{
		InsecureSkipVerify: global.Insecure,
		MaxRedirects:       5,
	})

	decision, err := resolver.New(transport, resolver.WithConfig(cfg)).Resolve(ctx, req.Target())
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve strategy")
	}

	return decision, nil
}

func resolveRemote(ctx context.Context, req *v1.OnboardRequest) (*v1.MonitoringDecision, error) {
	c, err := global.NewClient()
	if err != nil {
		return nil, err
	}

	decision, err := c.Strategies.Resolve(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve strategy")
	}

	return decision, nil
}

// PrintDecision renders a single decision for the given key.
func PrintDecision(out io.Writer, format, key string, decision *v1.MonitoringDecision) error {
	return printer.Print(out, format, decision, func(w io.Writer) {
		fmt.Fprintln(w, "KEY\tMONITORABLE\tSTRATEGY\tCONFIDENCE\tDETAILS")
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\t%s\n", key, decision.Monitorable,
			printer.OrNone(decision.StrategyName()), decision.Confidence, decision.Details)

		for _, step := range decision.NextSteps {
			fmt.Fprintf(w, "\t\t\t\t- %s\n", step)
		}
	})
}
