package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"csvlens/app"
	"csvlens/domain/dataset"
	"csvlens/internal"
	"csvlens/internal/report"
	"csvlens/internal/testkit"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// options are the flags shared by every command that reads a dataset
type options struct {
	logLevel    string
	previewRows int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "csvlens",
		Short:         "Profile CSV files: previews, k-NN imputation, summaries and charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")
	rootCmd.PersistentFlags().IntVar(&opts.previewRows, "preview", app.DefaultPreviewRows, "Rows shown in the raw and imputed previews")

	rootCmd.AddCommand(
		newProfileCmd(opts),
		newChartCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
		newDemoCmd(),
	)
	return rootCmd
}

func (o *options) service() *app.ProfileService {
	logger := internal.NewLogger(internal.ParseLogLevel(o.logLevel))
	return app.NewProfileService(app.WithLogger(logger), app.WithPreviewRows(o.previewRows))
}

func newProfileCmd(opts *options) *cobra.Command {
	var columns, kinds []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Print previews, imputation results and summaries for a dataset",
		Long: `Load a CSV (or XLSX) file, fill missing numeric cells with 5-nearest-neighbour
imputation and print the descriptive summaries.

Example: csvlens profile sales.csv --column price --column qty --kind BoxPlot --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, closeFile, err := openRequest(args[0], columns, kinds)
			if err != nil {
				return err
			}
			defer closeFile()

			svc := opts.service()
			res, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printSections(cmd.OutOrStdout(), res.Filename, report.Sections(svc.ReportInput(res)))
			if len(res.Charts) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d charts built; use --json or the chart command to get them.\n", len(res.Charts))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&columns, "column", "c", nil, "Numeric column to chart (repeatable)")
	cmd.Flags().StringArrayVarP(&kinds, "kind", "k", nil, "Chart kind to build (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func newChartCmd(opts *options) *cobra.Command {
	var columns []string
	var kind, format, out string

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Build one chart as Plotly JSON or SVG",
		Long: `Build a single chart over the imputed numeric columns. Kind is one of
Histogram, BoxPlot, ViolinPlot, ScatterMatrix, BarChart, LineChart or Heatmap.

Example: csvlens chart sales.csv --kind ViolinPlot -c price --format svg --out price.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, closeFile, err := openRequest(args[0], columns, nil)
			if err != nil {
				return err
			}
			defer closeFile()

			return writeOutput(cmd, out, func(w io.Writer) error {
				svc := opts.service()
				switch strings.ToLower(format) {
				case "svg":
					return svc.RenderSVG(cmd.Context(), req, kind, w)
				case "json":
					c, err := svc.Chart(cmd.Context(), req, kind)
					if err != nil {
						return err
					}
					return json.NewEncoder(w).Encode(c)
				default:
					return fmt.Errorf("unknown format %q (use json or svg)", format)
				}
			})
		},
	}

	cmd.Flags().StringArrayVarP(&columns, "column", "c", nil, "Numeric column to chart (repeatable)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "Histogram", "Chart kind")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the raw data, imputed data and summaries to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, closeFile, err := openRequest(args[0], nil, nil)
			if err != nil {
				return err
			}
			defer closeFile()

			if out == "" {
				out = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + "-profile.xlsx"
			}
			if err := writeOutput(cmd, out, func(w io.Writer) error {
				return opts.service().ExportWorkbook(cmd.Context(), req, w)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Workbook written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook (default <name>-profile.xlsx)")
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	var out string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render the profile as a Markdown or HTML report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, closeFile, err := openRequest(args[0], nil, nil)
			if err != nil {
				return err
			}
			defer closeFile()

			md, err := opts.service().Report(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				if asHTML {
					_, err := w.Write(report.HTML(md))
					return err
				}
				_, err := io.WriteString(w, md)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of Markdown")
	return cmd
}

func newDemoCmd() *cobra.Command {
	config := testkit.DefaultShoppingConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a synthetic shopping dataset with gaps to try the profiler on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.CustomerCount <= 0 {
				return fmt.Errorf("--customers must be positive")
			}
			if config.MissingRate < 0 || config.MissingRate >= 1 {
				return fmt.Errorf("--missing-rate must be in [0, 1)")
			}
			return writeOutput(cmd, out, testkit.NewShoppingDataGenerator(config).WriteCSV)
		},
	}

	cmd.Flags().IntVar(&config.CustomerCount, "customers", config.CustomerCount, "Number of rows")
	cmd.Flags().Float64Var(&config.MissingRate, "missing-rate", config.MissingRate, "Chance an optional numeric cell is blank")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic output")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// openRequest opens a dataset file as a profiling request
func openRequest(path string, columns, kinds []string) (app.ProfileRequest, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return app.ProfileRequest{}, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	req := app.ProfileRequest{
		Upload:  dataset.Upload{Filename: filepath.Base(path), Content: f},
		Columns: columns,
		Kinds:   kinds,
	}
	return req, func() { f.Close() }, nil
}

// writeOutput sends fn's output to the named file, or stdout when name is empty
func writeOutput(cmd *cobra.Command, name string, fn func(w io.Writer) error) error {
	if name == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

// printSections renders each report section as a terminal table
func printSections(w io.Writer, filename string, sections []report.Section) {
	fmt.Fprintf(w, "PROFILE: %s\n", filename)
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s\n", strings.ToUpper(s.Title))
		switch {
		case s.Table == nil:
			fmt.Fprintln(w, s.Text)
		case s.Table.Length() == 0:
			fmt.Fprintln(w, "(none)")
		default:
			s.Table.SetStyle(table.StyleLight)
			fmt.Fprintln(w, s.Table.Render())
		}
	}
}
