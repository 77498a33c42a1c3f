package cmd

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/nps-nearby/internal/report"
	"github.com/rohmanhakim/nps-nearby/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportState  string
	exportFormat string
)

var errStateRequired = errors.New("--state is required")

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the sites of a state to a Markdown or HTML report.",
	Long: `export lists the national sites of one state through the response cache
and writes them as a table to <output-dir>/<state>.md, or .html with
--format html.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportState == "" {
			return errStateRequired
		}
		format, err := report.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		stateURL, ok, err := a.explorer.LookupState(ctx, exportState)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown state %q", exportState)
		}
		sites, err := a.explorer.SitesForState(ctx, stateURL)
		if err != nil {
			return err
		}

		stateReport := report.StateReport{
			State:     exportState,
			SourceURL: stateURL,
			Sites:     sites,
		}
		content, err := stateReport.Render(format)
		if err != nil {
			return err
		}

		sink := storage.NewLocalSink(a.recorder)
		result, writeErr := sink.Write(cfg.OutputDir(), stateReport.FileName(format), content)
		if writeErr != nil {
			return writeErr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sites to %s\n", len(sites), result.Path())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportState, "state", "", "state name, e.g. michigan (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "report format: md or html")
	exportCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the report (default output)")
	rootCmd.AddCommand(exportCmd)
}
