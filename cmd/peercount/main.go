// Package main provides the CLI entrypoint for peercount.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/peercount/internal/config"
	"github.com/verte-zerg/peercount/internal/gradingui"
	"github.com/verte-zerg/peercount/internal/model"
	"github.com/verte-zerg/peercount/internal/participation"
	"github.com/verte-zerg/peercount/internal/report"
	"github.com/verte-zerg/peercount/internal/snapshot"
	"github.com/verte-zerg/peercount/internal/store"
)

var (
	gradeThreshold int
	gradeSince     string
	gradeUntil     string
	dbPath         string

	reportPlain bool
	reportColor bool

	removeRestore bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "peercount",
		Short:         "Peer participation grading for discussion boards",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	addGradingFlags(rootCmd)

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newStudentCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addGradingFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gradeThreshold, "threshold", model.DefaultThreshold, "distinct peers a student must answer")
	cmd.Flags().StringVar(&gradeSince, "since", "", "count replies on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gradeUntil, "until", "", "count replies on or before this day (YYYY-MM-DD)")
	addDBFlag(cmd)
}

func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the board database")
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveGradingConfig(cmd)
	if err != nil {
		return err
	}
	st, svc, err := openAnalysis(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ui := gradingui.NewModel(st, svc)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the ranked participation list",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addGradingFlags(cmd)
	cmd.Flags().BoolVar(&reportPlain, "plain", false, "print one summary line per student")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored output")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveGradingConfig(cmd)
	if err != nil {
		return err
	}
	st, svc, err := openAnalysis(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rep, err := report.BuildReport(cmd.Context(), st, svc)
	if err != nil {
		return err
	}
	if reportPlain {
		return report.RenderRecords(os.Stdout, rep.Ranked)
	}
	return report.RenderRanked(os.Stdout, rep, report.ShouldUseColor(os.Stdout, reportColor))
}

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student USERNAME",
		Short: "Show the peers a student answered and their replies",
		Args:  cobra.ExactArgs(1),
		RunE:  runStudentCmd,
	}
	addGradingFlags(cmd)
	return cmd
}

func runStudentCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveGradingConfig(cmd)
	if err != nil {
		return err
	}
	st, svc, err := openAnalysis(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := report.Load(cmd.Context(), st, svc); err != nil {
		return err
	}
	detail, err := report.BuildStudentDetail(svc, args[0])
	if err != nil {
		return err
	}
	if !detail.Found && len(detail.Replies) == 0 {
		logErrf("no replies found for %q\n", args[0])
	}
	return report.RenderStudent(os.Stdout, detail, report.TerminalWidth())
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a board export (YAML or JSON) into the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	addDBFlag(cmd)
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if err := resolveDBPath(cmd); err != nil {
		return err
	}
	snap, err := snapshot.LoadFile(args[0])
	if err != nil {
		return err
	}
	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.ImportSnapshot(cmd.Context(), snap.Posts, snap.Replies); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	posts, replies, err := st.CountRows(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	logErrf("Imported %d posts and %d replies from %s\n", len(snap.Posts), len(snap.Replies), args[0])
	logErrf("Database %s now holds %d posts and %d replies\n", dbPath, posts, replies)
	return nil
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "remove (post|reply) ID",
		Short:     "Mark a post or reply as deleted",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"post", "reply"},
		RunE:      runRemoveCmd,
	}
	addDBFlag(cmd)
	cmd.Flags().BoolVar(&removeRestore, "restore", false, "clear the deleted mark instead")
	return cmd
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	if err := resolveDBPath(cmd); err != nil {
		return err
	}
	kind, id := strings.ToLower(args[0]), strings.TrimSpace(args[1])
	if kind != "post" && kind != "reply" {
		return fmt.Errorf("unknown kind %q (expected post or reply)", args[0])
	}
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	deleted := !removeRestore
	var found bool
	if kind == "post" {
		found, err = st.SetPostDeleted(cmd.Context(), id, deleted)
	} else {
		found, err = st.SetReplyDeleted(cmd.Context(), id, deleted)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}
	if !found {
		return fmt.Errorf("%s %q not found", kind, id)
	}
	if deleted {
		logErrf("Marked %s %s as deleted\n", kind, id)
	} else {
		logErrf("Restored %s %s\n", kind, id)
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveGradingConfig merges the config file under any flags the user did not set.
func resolveGradingConfig(cmd *cobra.Command) (model.GradingConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.GradingConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "threshold", &gradeThreshold, fileCfg.Grading.Threshold)
	applyStringConfig(cmd, "since", &gradeSince, fileCfg.Grading.Since)
	applyStringConfig(cmd, "until", &gradeUntil, fileCfg.Grading.Until)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	return buildGradingConfig(gradeThreshold, gradeSince, gradeUntil, dbPath)
}

func resolveDBPath(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	if strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func buildGradingConfig(threshold int, since, until, path string) (model.GradingConfig, error) {
	if threshold < 1 {
		return model.GradingConfig{}, fmt.Errorf("--threshold must be >= 1")
	}
	start, err := config.ParseDate(strings.TrimSpace(since))
	if err != nil {
		return model.GradingConfig{}, fmt.Errorf("invalid --since value: %w", err)
	}
	end, err := config.ParseDate(strings.TrimSpace(until))
	if err != nil {
		return model.GradingConfig{}, fmt.Errorf("invalid --until value: %w", err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return model.GradingConfig{}, fmt.Errorf("--until must not be before --since")
	}
	if strings.TrimSpace(path) == "" {
		return model.GradingConfig{}, fmt.Errorf("--db must not be empty")
	}
	return model.GradingConfig{
		Threshold: threshold,
		Window:    model.DayWindow(start, end),
		DBPath:    path,
	}, nil
}

func openAnalysis(cfg model.GradingConfig) (*store.Store, *participation.Service, error) {
	svc, err := participation.NewService(cfg.Threshold)
	if err != nil {
		return nil, nil, err
	}
	svc.SetDateWindow(cfg.Window)
	st, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return st, svc, nil
}

func openStore(path string) (*store.Store, error) {
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
	return fmt.Sprintf(`# peercount configuration
# Uncomment a value to enable it. CLI flags override config values.

[grading]
# threshold = %d           # Distinct peers a student must answer
# since = "2025-09-01"    # First day counted (YYYY-MM-DD)
# until = "2025-12-19"    # Last day counted (YYYY-MM-DD)

[store]
# path = %q
`,
		model.DefaultThreshold,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
