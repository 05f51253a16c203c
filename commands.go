package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeline-media/internal/config"
	"timeline-media/internal/filesystem"
	"timeline-media/internal/logging"
	"timeline-media/internal/media"
	"timeline-media/internal/memory"
	"timeline-media/internal/metrics"
	"timeline-media/internal/pipeline"
	"timeline-media/internal/timeline"
	"timeline-media/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// flags holds command line overrides. Only flags the user set are applied.
type flags struct {
	configPath string
	verbose    bool

	contentDir    string
	destDir       string
	destDirClient string
	dataFile      string
	watermark     string
	source        string
	all           bool
	concurrency   int
	noVips        bool
	metricsFile   string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "timeline-media",
		Short: "Build timeline media from markdown event directories",
		Long: "timeline-media scans event directories, renders their images into " +
			"content-addressed thumbnails and full images, and writes the timeline data file.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(buildCmd(f))
	root.AddCommand(watchCmd(f))
	root.AddCommand(versionCmd())
	return root
}

func addBuildFlags(cmd *cobra.Command, f *flags) {
	fs := cmd.Flags()
	fs.StringVar(&f.contentDir, "content", "", "Content directory with one subdirectory per event")
	fs.StringVar(&f.destDir, "dest", "", "Output directory for rendered images")
	fs.StringVar(&f.destDirClient, "dest-client", "", "Client URL prefix of rendered images")
	fs.StringVar(&f.dataFile, "data-file", "", "JSON data file holding the timeline")
	fs.StringVar(&f.watermark, "watermark", "", "Watermark image for full-size outputs (default: bundled)")
	fs.StringVar(&f.source, "source", "", "Source tag for selective re-processing")
	fs.BoolVar(&f.all, "all", false, "Process every image in event directories, not only referenced ones")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Maximum concurrent media jobs (0 = one per CPU)")
	fs.BoolVar(&f.noVips, "no-vips", false, "Do not use libvips for decode-time shrinking")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
}

func buildCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Process media once and update the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := prepare(cmd, f)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = build(ctx, cfg, cmd.OutOrStdout())
			return err
		},
	}
	addBuildFlags(cmd, f)
	return cmd
}

func watchCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever the content directory changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := prepare(cmd, f)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if _, err := build(ctx, cfg, out); err != nil {
				logging.Error("Initial build failed: %v", err)
			}
			return watcher.Watch(ctx, cfg.ContentDir, cfg.WatchDebounce, func(ctx context.Context, changed []string) error {
				logging.Debug("changed: %v", changed)
				_, err := build(ctx, cfg, out)
				return err
			})
		},
	}
	addBuildFlags(cmd, f)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := config.GetBuildInfo()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "timeline-media %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
			return err
		},
	}
}

// prepare loads configuration, applies flag overrides and initialises the
// process-wide services. The returned cleanup releases them.
func prepare(cmd *cobra.Command, f *flags) (*config.Config, func(), error) {
	if f.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.Absolutize(); err != nil {
		return nil, nil, err
	}

	config.PrintBanner(cmd.OutOrStdout())
	config.LogSystemInfo()
	cfg.Log()

	memory.Configure(cfg.MemoryLimit, cfg.MemoryRatio)

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"content": cfg.ContentDir,
		"output":  cfg.DestDir,
	}))
	metrics.InitializeMetrics()
	metrics.SetAppInfo(config.Version, config.GoVersion)

	cleanup := func() {}
	if cfg.UseVips {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using pure Go decoding: %v", err)
			cfg.UseVips = false
		} else {
			cleanup = media.ShutdownVips
		}
	}
	return cfg, cleanup, nil
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("content") {
		cfg.ContentDir = f.contentDir
	}
	if changed("dest") {
		cfg.DestDir = f.destDir
	}
	if changed("dest-client") {
		cfg.DestDirClient = f.destDirClient
	}
	if changed("data-file") {
		cfg.DataFile = f.dataFile
	}
	if changed("watermark") {
		cfg.WatermarkPath = f.watermark
	}
	if changed("source") {
		cfg.Source = f.source
	}
	if changed("all") {
		cfg.ReferencedOnly = !f.all
	}
	if changed("concurrency") {
		cfg.MaxConcurrent = f.concurrency
	}
	if changed("no-vips") {
		cfg.UseVips = !f.noVips
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
}

// build runs the pipeline once and merges the result into the data file.
func build(ctx context.Context, cfg *config.Config, out io.Writer) (*pipeline.Result, error) {
	start := time.Now()

	df, err := timeline.ReadDataFile(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	previous, err := df.Timeline()
	if err != nil {
		return nil, err
	}

	var wm *media.Watermark
	if cfg.WatermarkPath != "" {
		wm, err = media.LoadWatermark(cfg.WatermarkPath, media.DefaultWatermarkScale)
		if err != nil {
			return nil, err
		}
	}

	opts := pipeline.Options{
		Directory:      cfg.ContentDir,
		DestDir:        cfg.DestDir,
		DestDirClient:  cfg.DestDirClient,
		ReferencedOnly: cfg.ReferencedOnly,
		Previous:       previous,
		Source:         cfg.Source,
		Watermark:      wm,
		Limits:         cfg.Limits(),
		MaxConcurrent:  cfg.MaxConcurrent,
		UseVips:        cfg.UseVips,
		Prober:         media.NewProber(cfg.FetchTimeout, cfg.FetchRate),
	}
	if isTerminal(out) {
		opts.ProgressOut = out
		opts.ProgressInPlace = true
	}

	res, err := pipeline.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries := timeline.Merge(previous, res.Entries, cfg.Source)
	if err := df.Update(entries, timeline.VisitedAreas(entries), time.Now()); err != nil {
		return nil, err
	}
	if err := df.Write(); err != nil {
		return nil, err
	}
	logging.Info("Wrote %d timeline entries to %s", len(entries), df.Path())

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logging.Warn("Failed to write metrics file %s: %v", cfg.MetricsFile, err)
		}
	}

	printSummary(out, res, len(entries), time.Since(start))
	return res, nil
}

func printSummary(out io.Writer, res *pipeline.Result, total int, took time.Duration) {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow, color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s %d events (%d in timeline), %d processed, %d cached in %v\n",
		ok("done"), res.Stats.Events, total, res.Stats.Processed, res.Stats.Cached, took.Round(time.Millisecond))
	if n := len(res.Unresolved); n > 0 {
		fmt.Fprintf(out, "%s %d media entries were not processed\n", warn("warning"), n)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
