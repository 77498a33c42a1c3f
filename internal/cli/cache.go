package cmd

import (
	"fmt"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/urlutil"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the response cache.",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the backend, location and entry count of the response cache.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "backend: %s\n", cfg.CacheBackend())
		fmt.Fprintf(out, "file:    %s\n", cfg.CacheFile())
		fmt.Fprintf(out, "entries: %d\n", a.store.Len())
		return nil
	},
}

var cacheKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the cached request keys in sorted order, API keys redacted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		for _, key := range a.store.Keys() {
			fmt.Fprintln(out, urlutil.RedactQuery(key, metadata.SecretQueryParams...))
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheKeysCmd)
	rootCmd.AddCommand(cacheCmd)
}
