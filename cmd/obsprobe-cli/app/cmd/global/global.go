package global

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neutree-ai/obsprobe/pkg/client"
)

var (
	ServerURL string
	Token     string
	Insecure  bool
)

// AddFlags registers --server-url, --token and --insecure as persistent flags on the root command.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ServerURL, "server-url", "", "API server URL (env: OBSPROBE_SERVER_URL)")
	cmd.PersistentFlags().StringVar(&Token, "token", "", "API bearer token (env: OBSPROBE_TOKEN)")
	cmd.PersistentFlags().BoolVar(&Insecure, "insecure", false, "Skip TLS verification")
}

// ResolveEnv fills in flag values from environment variables when not set via flags.
func ResolveEnv() {
	if ServerURL == "" {
		ServerURL = os.Getenv("OBSPROBE_SERVER_URL")
	}

	if Token == "" {
		Token = os.Getenv("OBSPROBE_TOKEN")
	}
}

func NewClient() (*client.Client, error) {
	if ServerURL == "" {
		return nil, errors.New("server url is required, set --server-url or OBSPROBE_SERVER_URL")
	}

	opts := []client.ClientOption{}

	if Token != "" {
		opts = append(opts, client.WithToken(Token))
	}

	if Insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}

	return client.NewClient(ServerURL, opts...), nil
}
