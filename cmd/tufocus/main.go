// Package main provides the CLI entrypoint for tufocus.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tufocus/internal/config"
	tflog "github.com/verte-zerg/tufocus/internal/log"
	"github.com/verte-zerg/tufocus/internal/model"
	"github.com/verte-zerg/tufocus/internal/records"
	"github.com/verte-zerg/tufocus/internal/stats"
	"github.com/verte-zerg/tufocus/internal/statsui"
	"github.com/verte-zerg/tufocus/internal/store"
	"github.com/verte-zerg/tufocus/internal/tui"
)

const (
	defaultMinutes   = 25
	defaultMode      = "focus"
	defaultLogLevel  = "info"
	defaultChartDays = statsui.DefaultChartDays
)

var (
	timerMinutes int
	timerMode    string

	dbPath string

	statsDays int

	summaryDate string

	resetYes bool

	exportFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tufocus",
		Short:         "Focus timer with daily statistics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().IntVar(&timerMinutes, "minutes", defaultMinutes, "session length in minutes")
	rootCmd.Flags().StringVar(&timerMode, "mode", defaultMode, "session mode label")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/tufocus/tufocus.db)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the process-wide collaborators. One record store is created
// per process and handed to every consumer.
type app struct {
	kv       *store.Store
	records  *records.Store
	logger   hclog.Logger
	logClose io.Closer
}

func openApp(cmd *cobra.Command, fileCfg config.FileConfig) (*app, error) {
	logOpts := tflog.Options{
		Enabled: true,
		Level:   defaultLogLevel,
		Path:    config.DefaultLogPath(),
	}
	if fileCfg.Log.Enabled != nil {
		logOpts.Enabled = *fileCfg.Log.Enabled
	}
	if fileCfg.Log.Level != nil {
		logOpts.Level = *fileCfg.Log.Level
	}
	if fileCfg.Log.Path != nil && *fileCfg.Log.Path != "" {
		logOpts.Path = *fileCfg.Log.Path
	}
	logger, logClose, err := tflog.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	path := config.DefaultDBPath()
	if fileCfg.Store.Path != nil && *fileCfg.Store.Path != "" {
		path = *fileCfg.Store.Path
	}
	if cmd.Flags().Changed("db") {
		path = dbPath
	}
	loc, err := fileCfg.Store.Location()
	if err != nil {
		_ = logClose.Close()
		return nil, err
	}
	retention := records.DefaultRetentionDays
	if fileCfg.Store.RetentionDays != nil {
		if *fileCfg.Store.RetentionDays <= 0 {
			_ = logClose.Close()
			return nil, fmt.Errorf("retention-days must be > 0")
		}
		retention = *fileCfg.Store.RetentionDays
	}

	kv, err := store.Open(path)
	if err != nil {
		_ = logClose.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	rs := records.New(kv,
		records.WithClock(records.SystemClock(loc)),
		records.WithLogger(logger.Named("records")),
		records.WithRetentionDays(retention),
	)
	a := &app{kv: kv, records: rs, logger: logger, logClose: logClose}
	if err := rs.Init(cmd.Context()); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	if err := a.logClose.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func loadConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "minutes", &timerMinutes, fileCfg.Timer.Minutes)
	applyStringConfig(cmd, "mode", &timerMode, fileCfg.Timer.Mode)

	cfg := model.TimerConfig{
		Minutes: timerMinutes,
		Mode:    timerMode,
	}
	if err := validateTimerConfig(cfg); err != nil {
		return err
	}

	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	m := tui.NewModel(cfg, a.records, a.kv, a.logger.Named("timer"))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse statistics and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDays, "days", defaultChartDays, "days shown in the daily chart")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	program := tea.NewProgram(statsui.NewModel(a.records, statsDays), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print statistics and per-day history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	w := cmd.OutOrStdout()
	if err := stats.RenderSummary(w, a.records.GetStatistics()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(w, a.records.GetHistoryRecords()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show today's total or the total of a given day",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	cmd.Flags().StringVar(&summaryDate, "date", "", "day to summarize (YYYY-MM-DD)")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	line, err := formatSummary(a.records, summaryDate)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}

type summarySource interface {
	Today() string
	DayKey(date any) (string, error)
	GetTodaySummary() model.TodaySummary
	GetDaySummary(date any) model.DaySummary
}

func formatSummary(src summarySource, date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		today := src.GetTodaySummary()
		if !today.HasData() {
			return fmt.Sprintf("%s: no sessions recorded yet", src.Today()), nil
		}
		return fmt.Sprintf("%s: %s in %d sessions", src.Today(), stats.FormatMinutes(today.TodayTotal), today.SessionCount), nil
	}
	key, err := src.DayKey(date)
	if err != nil {
		return "", fmt.Errorf("invalid --date: %w", err)
	}
	day := src.GetDaySummary(key)
	return fmt.Sprintf("%s: %s in %d sessions", key, stats.FormatMinutes(day.Total), day.SessionCount), nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store state and when the database was last saved",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	savedAt, saved, err := a.kv.UpdatedAt(cmd.Context(), records.SnapshotKey)
	if err != nil {
		return fmt.Errorf("failed to read save time: %w", err)
	}
	st := storeStatus{
		State:      a.records.State(),
		Days:       len(a.records.GetHistoryRecords()),
		Statistics: a.records.GetStatistics(),
		SavedAt:    savedAt,
		Saved:      saved,
	}
	return writeStatus(cmd.OutOrStdout(), st)
}

type storeStatus struct {
	State      records.State
	Days       int
	Statistics model.Statistics
	SavedAt    time.Time
	Saved      bool
}

func writeStatus(w io.Writer, st storeStatus) error {
	lastSaved := "never"
	if st.Saved {
		lastSaved = st.SavedAt.Local().Format("2006-01-02 15:04:05")
	}
	_, err := fmt.Fprintf(w, "State:       %s\nDays:        %d\nTotal:       %s\nLast saved:  %s\n",
		st.State,
		st.Days,
		stats.FormatMinutes(st.Statistics.TotalMinutes),
		lastSaved,
	)
	return err
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove days older than the retention window",
		Args:  cobra.NoArgs,
		RunE:  runCleanupCmd,
	}
}

func runCleanupCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	before := len(a.records.GetHistoryRecords())
	db, err := a.records.CleanupOldRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clean up records: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Kept %d days, removed %d.\n", len(db.Records), before-len(db.Records))
	return err
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "This deletes every recorded session. Type 'yes' to continue: ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.records.ResetDatabase(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset records: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "All records deleted.")
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full database to stdout",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or yaml)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer a.close()

	db, _ := a.records.Snapshot()
	return writeExport(cmd.OutOrStdout(), db, exportFormat)
}

func writeExport(w io.Writer, db model.Database, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(db); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(db); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
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
	return fmt.Sprintf(`# tufocus configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# minutes = %d            # Session length in minutes
# mode = %q          # Label stored with each session

[store]
# path = ""               # Database path (default: $XDG_DATA_HOME/tufocus/tufocus.db)
# retention-days = %d     # Days kept by 'tufocus cleanup'
# timezone = "Local"      # IANA zone used to decide the calendar day

[log]
# enabled = true          # Write diagnostics to the log file
# level = %q          # trace, debug, info, warn or error
# path = ""               # Log file (default: $XDG_DATA_HOME/tufocus/tufocus.log)
`,
		defaultMinutes,
		defaultMode,
		records.DefaultRetentionDays,
		defaultLogLevel,
	)
}

func validateTimerConfig(cfg model.TimerConfig) error {
	if cfg.Minutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	if cfg.Minutes > 24*60 {
		return fmt.Errorf("--minutes must be at most %d", 24*60)
	}
	if strings.TrimSpace(cfg.Mode) == "" {
		return fmt.Errorf("--mode must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
