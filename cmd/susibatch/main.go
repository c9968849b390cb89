// susibatch renders SuSi measurement files to chart images and reports
// without the desktop shell, for scripted or CI use.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/config"
	"github.com/user/susi_analyzer_go/internal/parser"
	"github.com/user/susi_analyzer_go/internal/report"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	rootCmd := &cobra.Command{
		Use:   "susibatch",
		Short: "Headless chart rendering for SuSi measurement files",
		Long:  "Parses tab-delimited Sun Simulator data files and writes the composed chart image, PDF report or XLSX workbook without opening a window.",
	}

	rootCmd.AddCommand(renderCmd(cfg))
	rootCmd.AddCommand(exportCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type renderFlags struct {
	out      string
	title    string
	labels   []string
	separate bool
	filters  map[string]string
}

func addCommonFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output path (defaults next to the first input)")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "overall chart title")
	cmd.Flags().StringSliceVarP(&f.labels, "labels", "l", nil, "per-file labels, one per input")
	cmd.Flags().BoolVar(&f.separate, "separate-fwd-rev", false, "plot forward and reverse sweeps at separate x positions")
	cmd.Flags().StringToStringVarP(&f.filters, "filter", "f", nil, `filter ranges, e.g. -f Efficiency=0,25 -f Voltage=-0.2,1.2`)
}

func renderCmd(cfg *config.Config) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render chart dashboard PNG from one or more data files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDashboard(cfg, args, f)
			if err != nil {
				return err
			}
			out := f.out
			if out == "" {
				out = defaultOutPath(cfg, args[0], "_plots.png")
			}
			if err := d.RenderToFile(out); err != nil {
				return err
			}
			log.Info().Str("out", out).Int("files", len(d.Files)).Msg("charts rendered")
			return nil
		},
	}
	addCommonFlags(cmd, f)
	return cmd
}

func exportCmd(cfg *config.Config) *cobra.Command {
	f := &renderFlags{}
	var format string
	cmd := &cobra.Command{
		Use:   "export <file>...",
		Short: "Export a PDF report or XLSX workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDashboard(cfg, args, f)
			if err != nil {
				return err
			}
			switch format {
			case "pdf":
				out := f.out
				if out == "" {
					out = defaultOutPath(cfg, args[0], "_report.pdf")
				}
				png, err := d.Render()
				if err != nil {
					return err
				}
				if err := report.BuildPDFReport(out, d.Files, d.Filters, png); err != nil {
					return err
				}
				log.Info().Str("out", out).Msg("PDF report written")
			case "xlsx":
				out := f.out
				if out == "" {
					out = defaultOutPath(cfg, args[0], "_metrics.xlsx")
				}
				if err := report.ExportXLSX(out, d.Files, d.Filters); err != nil {
					return err
				}
				log.Info().Str("out", out).Msg("workbook written")
			default:
				return fmt.Errorf("unknown format %q: use pdf or xlsx", format)
			}
			return nil
		},
	}
	addCommonFlags(cmd, f)
	cmd.Flags().StringVar(&format, "format", "pdf", "export format: pdf or xlsx")
	return cmd
}

func buildDashboard(cfg *config.Config, paths []string, f *renderFlags) (*report.Dashboard, error) {
	var files []*parser.MeasurementFile
	if len(paths) == 1 {
		m, err := parser.ParseSuSiFile(paths[0])
		if err != nil {
			return nil, err
		}
		files = []*parser.MeasurementFile{m}
	} else {
		var skipped []string
		files, skipped = parser.ParseSuSiFiles(paths)
		for _, s := range skipped {
			log.Warn().Msg("skipped " + s)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("none of the %d file(s) could be parsed", len(paths))
		}
	}

	filters := analysis.DefaultFilters()
	if r, err := analysis.ParseFilterRange(cfg.EfficiencyRange); err == nil {
		filters[analysis.MetricEfficiency] = r
	}
	if r, err := analysis.ParseFilterRange(cfg.FillFactorRange); err == nil {
		filters[analysis.MetricFillFactor] = r
	}
	// Flag overrides layer on top of the config-derived ranges.
	filters, err := filters.WithSpecs(f.filters)
	if err != nil {
		return nil, err
	}

	opts := report.DefaultPlotOptions()
	opts.ChartWidth = vg.Points(cfg.ChartWidthPt)
	opts.ChartHeight = vg.Points(cfg.ChartHeightPt)
	opts.SeparateForwardReverse = f.separate

	if len(f.labels) > 0 && len(f.labels) != len(files) {
		return nil, fmt.Errorf("have %d label(s) for %d file(s)", len(f.labels), len(files))
	}

	title := f.title
	if title == "" {
		if len(files) == 1 {
			title = files[0].Name
		} else {
			title = "Comparison Plot"
		}
	}

	return &report.Dashboard{
		Files:   files,
		Labels:  f.labels,
		Title:   title,
		Filters: filters,
		Options: opts,
	}, nil
}

func defaultOutPath(cfg *config.Config, firstInput, suffix string) string {
	base := filepath.Base(firstInput)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(cfg.OutputDir, base+suffix)
}
