// Package main provides the CLI entrypoint for factcurve.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/factcurve/internal/config"
	"github.com/verte-zerg/factcurve/internal/export"
	"github.com/verte-zerg/factcurve/internal/ingest"
	"github.com/verte-zerg/factcurve/internal/model"
	"github.com/verte-zerg/factcurve/internal/pipeline"
	"github.com/verte-zerg/factcurve/internal/stats"
	"github.com/verte-zerg/factcurve/internal/statsui"
	"github.com/verte-zerg/factcurve/internal/store"
)

const (
	defaultPlotHeight = 10
	defaultWeakTop    = 8
	defaultDelimiter  = " "
)

var (
	dbPath string

	statsLevel      int
	statsItems      string
	statsPlotHeight int

	exportOut       string
	exportDelimiter string

	reportLevel      int
	reportTop        int
	reportPlotHeight int
	reportNoCurves   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "factcurve",
		Short:         "Encounter analytics for multiplication practice trials",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStatsCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "trial database path (default: XDG data dir)")
	rootCmd.Flags().IntVar(&statsLevel, "level", 0, "restrict to one level (1-3, 0 for all)")
	rootCmd.Flags().StringVar(&statsItems, "items", "", "items for per-item curves (comma-separated cues)")
	rootCmd.Flags().IntVar(&statsPlotHeight, "plot-height", defaultPlotHeight, "plot height in rows")

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "level", &statsLevel, fileCfg.Report.Level)
	applyStringConfig(cmd, "items", &statsItems, fileCfg.Report.Items)
	applyIntConfig(cmd, "plot-height", &statsPlotHeight, fileCfg.Report.PlotHeight)
	if statsLevel < 0 || statsLevel > 3 {
		return fmt.Errorf("--level must be 0 (all) or 1-3")
	}

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	cfg := model.StatsConfig{
		Level:      statsLevel,
		Items:      statsItems,
		PlotHeight: statsPlotHeight,
	}
	uiModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.csv>",
		Short: "Load trial records into the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngestCmd,
	}
}

func runIngestCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	raws, err := ingest.ReadFile(args[0])
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return fmt.Errorf("no trial records found in %s", args[0])
	}

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	count, err := st.InsertTrials(context.Background(), raws)
	if err != nil {
		return fmt.Errorf("failed to insert trials: %w", err)
	}
	total, err := st.CountTrials(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count trials: %w", err)
	}
	logErrf("Ingested %d trial records (%d total)\n", count, total)
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write encounter-group files for the modeling tool",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: XDG data dir)")
	cmd.Flags().StringVar(&exportDelimiter, "delimiter", defaultDelimiter, "field delimiter")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "out", &exportOut, fileCfg.Export.Out)
	applyStringConfig(cmd, "delimiter", &exportDelimiter, fileCfg.Export.Delimiter)
	outDir := exportOut
	if outDir == "" {
		outDir = config.DefaultExportDir()
	}

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	results, err := pipeline.Run(context.Background(), st, model.Levels)
	if err != nil {
		return fmt.Errorf("failed to run pipeline: %w", err)
	}
	for _, res := range results {
		if res.Drops.Total() > 0 {
			logErrf("Level %d: dropped %d malformed rows\n", res.Level, res.Drops.Total())
		}
		paths, err := export.WriteLevel(outDir, res.Level, res.Groups, exportDelimiter)
		if err != nil {
			return fmt.Errorf("failed to export level %d: %w", res.Level, err)
		}
		for _, path := range paths {
			logErrf("Wrote %s\n", path)
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print per-item statistics and encounter curves",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportLevel, "level", 0, "restrict to one level (1-3, 0 for all)")
	cmd.Flags().IntVar(&reportTop, "top", defaultWeakTop, "number of weakest items to list")
	cmd.Flags().IntVar(&reportPlotHeight, "plot-height", defaultPlotHeight, "plot height in rows")
	cmd.Flags().BoolVar(&reportNoCurves, "no-curves", false, "skip encounter curve plots")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "level", &reportLevel, fileCfg.Report.Level)
	applyIntConfig(cmd, "plot-height", &reportPlotHeight, fileCfg.Report.PlotHeight)
	if reportLevel < 0 || reportLevel > 3 {
		return fmt.Errorf("--level must be 0 (all) or 1-3")
	}
	levels := model.Levels
	if reportLevel > 0 {
		levels = []model.Level{model.Level(reportLevel)}
	}

	st, err := openStore(fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	results, err := pipeline.Run(context.Background(), st, levels)
	if err != nil {
		return fmt.Errorf("failed to run pipeline: %w", err)
	}

	out := cmd.OutOrStdout()
	sums := make([]stats.LevelSummary, 0, len(results))
	for _, res := range results {
		sums = append(sums, res.Summary())
		if res.Drops.Total() > 0 {
			logErrf("Level %d: dropped %d malformed rows (correct=%d response=%d cue=%d)\n",
				res.Level, res.Drops.Total(), res.Drops.BadCorrect, res.Drops.BadResponse, res.Drops.BadCue)
		}
	}
	if err := stats.RenderLevelSummaries(out, sums); err != nil {
		return err
	}
	for _, res := range results {
		if len(res.Trials) == 0 {
			continue
		}
		title := fmt.Sprintf("Level %d Items", res.Level)
		if err := stats.RenderItemTable(out, title, res.Items); err != nil {
			return err
		}
		weakTitle := fmt.Sprintf("Level %d Weakest Items", res.Level)
		if err := stats.RenderItemTable(out, weakTitle, stats.WeakestItems(res.Items, reportTop)); err != nil {
			return err
		}
		if reportNoCurves {
			continue
		}
		series := []stats.Series{stats.CurveSeries(fmt.Sprintf("Level %d", res.Level), res.Curve)}
		title = fmt.Sprintf("Level %d Accuracy by Encounter", res.Level)
		if err := stats.RenderEncounterCurves(out, title, series, 0, reportPlotHeight, false); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore(fileCfg config.FileConfig) (*store.Store, error) {
	path := dbPath
	if path == "" && fileCfg.Data.DB != nil {
		path = *fileCfg.Data.DB
	}
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# factcurve configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# db = %q              # Trial database path

[export]
# out = %q             # Export directory
# delimiter = %q       # Field delimiter for export files

[report]
# level = 0            # Restrict to one level (1-3, 0 for all)
# items = "3x4,6x7"    # Items for per-item curves
# plot-height = %d     # Plot height in rows
`,
		config.DefaultDBPath(),
		config.DefaultExportDir(),
		defaultDelimiter,
		defaultPlotHeight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
