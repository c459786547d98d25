package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	serverURL string
	timeout   time.Duration
}

func (o *rootOptions) client() *Client {
	return NewClient(o.serverURL, o.timeout)
}

// NewRootCmd builds the duelctl command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "duelctl",
		Short:         "Operate a trivia duel server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080", "base URL of the duel server")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP request timeout")

	cmd.AddCommand(
		newCreateCmd(opts),
		newProbeCmd(opts),
		newRoomCmd(opts),
		newHealthCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}
