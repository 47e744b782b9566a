// Package main provides the CLI entry point for pubfig-go.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/ukaji3/pubfig-go/pkg/pubfig"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/job"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/parser"
)

var (
	outDir     string
	fontFamily string
	format     string
	sourceData string
	watch      bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pubfig",
		Short: "Render publication-quality figures",
		Long: `pubfig renders consistently styled figures for academic papers
from CSV, TSV and xlsx data described in a YAML or TOML job file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	renderCmd := &cobra.Command{
		Use:   "render JOBFILE",
		Short: "Render every figure of a job file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (default: the job file's out_dir)")
	renderCmd.Flags().StringVar(&fontFamily, "font", "", "Font family: serif, sans-serif, latin-modern")
	renderCmd.Flags().StringVar(&format, "format", "", "Output format: pdf, svg, eps, png, jpg, tiff")
	renderCmd.Flags().StringVar(&sourceData, "source-data", "", "Write every figure's input data to this xlsx file")
	renderCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the job or data files change")

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the color policy and available colormaps",
		Args:  cobra.NoArgs,
		RunE:  runPalette,
	}

	rootCmd.AddCommand(renderCmd, paletteCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runRender(cmd *cobra.Command, args []string) error {
	jobPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(jobPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", jobPath)
	}

	opts := jobOptions()
	files, err := renderOnce(jobPath, opts)
	if !watch {
		return err
	}
	if err != nil {
		slog.Error("render failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchAndRender(ctx, jobPath, files, opts)
}

func jobOptions() job.Options {
	return job.Options{
		OutDir: outDir,
		Font:   pubfig.FontFamily(fontFamily),
		Format: format,
	}
}

// renderOnce loads and renders the job and returns the files it depends on.
func renderOnce(jobPath string, opts job.Options) ([]string, error) {
	f, err := job.Load(jobPath)
	if err != nil {
		return []string{jobPath}, fmt.Errorf("loading job failed: %w", err)
	}
	files := append([]string{jobPath}, f.DataFiles()...)

	results, err := job.Render(f, opts)
	if sourceData != "" {
		if werr := writeSourceData(results, sourceData); werr != nil {
			return files, fmt.Errorf("failed to write source data: %w", werr)
		}
	}
	if err != nil {
		return files, fmt.Errorf("rendering failed: %w", err)
	}
	return files, nil
}

func writeSourceData(results []job.Result, path string) error {
	var names []string
	var datasets []*models.Dataset
	for _, r := range results {
		if r.Data == nil {
			continue
		}
		names = append(names, r.Name)
		datasets = append(datasets, r.Data)
	}
	if len(datasets) == 0 {
		return nil
	}
	if err := parser.WriteXLSX(path, names, datasets); err != nil {
		return err
	}
	slog.Info("wrote source data", "path", path, "sheets", len(datasets))
	return nil
}

// watchAndRender re-renders whenever one of files changes, until ctx ends.
// Directories are watched so that editors replacing files are noticed.
func watchAndRender(ctx context.Context, jobPath string, files []string, opts job.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	update := func(files []string) {
		clear(watched)
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				continue
			}
			watched[abs] = true
			if dir := filepath.Dir(abs); !dirs[dir] {
				if err := watcher.Add(dir); err != nil {
					slog.Warn("cannot watch directory", "dir", dir, "err", err)
					continue
				}
				dirs[dir] = true
			}
		}
	}
	update(files)
	slog.Info("watching for changes", "files", len(watched))

	const settle = 200 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err == nil && watched[abs] {
				slog.Debug("change detected", "file", event.Name)
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case <-timer.C:
			files, err := renderOnce(jobPath, opts)
			if err != nil {
				slog.Error("render failed", "err", err)
			}
			update(files)
		}
	}
}

func runPalette(cmd *cobra.Command, args []string) error {
	policy, err := pubfig.DefaultColorPolicy()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "slots:")
	for _, name := range policy.Slots() {
		hex, err := policy.Hex(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-8s %s\n", name, hex)
	}
	fmt.Fprintln(out, "roles:")
	for _, role := range policy.Roles() {
		hex, err := policy.Hex(role)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-8s %s (%s)\n", role, hex, pubfig.ContextAliases[role])
	}
	fmt.Fprintln(out, "colormaps:")
	for _, name := range pubfig.Colormaps() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
