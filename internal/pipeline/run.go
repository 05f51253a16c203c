package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"timeline-media/internal/cache"
	"timeline-media/internal/content"
	"timeline-media/internal/filesystem"
	"timeline-media/internal/logging"
	"timeline-media/internal/media"
	"timeline-media/internal/metrics"
	"timeline-media/internal/timeline"
	"timeline-media/internal/workers"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options configures one pipeline run.
type Options struct {
	Directory     string // content root
	DestDir       string // where output files are written
	DestDirClient string // prefix of src and thumbnail fields for the client

	// ReferencedOnly processes only media listed in frontmatter and skips
	// events without a markdown file. Otherwise every image file of an
	// event is included as well.
	ReferencedOnly bool

	// Previous is the timeline of an earlier run, used for cache lookups.
	Previous []timeline.Entry

	// Source tags produced entries and items for selective re-processing.
	Source string

	// Watermark is composited onto every full image. nil selects the
	// bundled default.
	Watermark     *media.Watermark
	Limits        media.Limits
	MaxConcurrent int
	UseVips       bool
	Prober        *media.Prober

	// ProgressOut receives progress lines; nil routes them to the logger.
	ProgressOut     io.Writer
	ProgressInPlace bool
}

// Result is the outcome of a run.
type Result struct {
	RunID        string
	Entries      []timeline.Entry
	OutputFiles  []string
	Unresolved   []timeline.Unresolved
	Tags         []string
	VisitedAreas []timeline.Area
	Stats        Stats
}

// Stats counts media items by outcome.
type Stats struct {
	Events    int
	Processed int
	Cached    int
	Failed    int
}

// loadedEvent is an event with its document parsed and media decoded.
type loadedEvent struct {
	ctx   EventContext
	attrs map[string]interface{}
	refs  []media.Ref

	// decodeFailures are media entries that could not be decoded.
	decodeFailures []timeline.Unresolved
}

// job is one media reference waiting for the gate.
type job struct {
	event int
	pos   int
}

// Run processes the content tree into timeline entries and output files.
//
// Events are loaded concurrently. Media references are then admitted to a
// bounded gate one at a time, events in directory order and references in
// list order, and each resolves in its own goroutine. Results are stored
// by position, so output order never depends on completion order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	res, err := run(ctx, runID, opts)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	metrics.PipelineLastRunDuration.Set(time.Since(start).Seconds())
	metrics.PipelineLastRunTimestamp.SetToCurrentTime()

	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return res, nil
}

func run(ctx context.Context, runID string, opts Options) (*Result, error) {
	retry := filesystem.DefaultRetryConfig()

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	scanner := content.NewScanner(opts.Directory)
	events, err := scanner.Scan()
	if err != nil {
		return nil, err
	}

	loaded, err := loadEvents(ctx, scanner, events, opts.ReferencedOnly)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for i, ev := range loaded {
		if ev == nil {
			continue
		}
		for pos, ref := range ev.refs {
			if ref.Src != "" {
				jobs = append(jobs, job{event: i, pos: pos})
			}
		}
	}

	watermark := opts.Watermark
	if watermark == nil {
		if watermark, err = media.DefaultWatermark(media.DefaultWatermarkScale); err != nil {
			return nil, err
		}
	}

	prober := opts.Prober
	if prober == nil {
		prober = media.NewProber(media.DefaultFetchTimeout, media.DefaultFetchRate)
	}

	progress := NewProgress(len(jobs), opts.ProgressOut, opts.ProgressInPlace)
	resolver := &Resolver{
		DestDir:       opts.DestDir,
		DestDirClient: opts.DestDirClient,
		Source:        opts.Source,
		Store:         cache.NewStore(),
		Previous:      cache.NewPreviousIndex(timeline.MediaItems(opts.Previous)),
		Transformer: &media.Transformer{
			Limits:    opts.Limits,
			Watermark: watermark,
			UseVips:   opts.UseVips,
		},
		Prober:   prober,
		Progress: progress,
		Retry:    retry,
	}

	logging.Info("run %s: %d events, %d media references, %d previous items",
		runID, countLoaded(loaded), len(jobs), resolver.Previous.Len())

	resolutions, err := dispatch(ctx, resolver, loaded, jobs, workers.NewGate(workers.GateSize(opts.MaxConcurrent)))
	progress.Finish()
	if err != nil {
		return nil, err
	}

	return assemble(runID, opts, loaded, jobs, resolutions), nil
}

// loadEvents reads every event document concurrently. Events skipped in
// referenced-only mode are left nil.
func loadEvents(ctx context.Context, scanner *content.Scanner, events []content.Event, referencedOnly bool) ([]*loadedEvent, error) {
	loaded := make([]*loadedEvent, len(events))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForMixed(0))
	for i, ev := range events {
		if referencedOnly && ev.Markdown() == "" {
			continue
		}
		g.Go(func() error {
			doc, err := scanner.ReadDocument(ev)
			if err != nil {
				return err
			}
			loaded[i] = newLoadedEvent(ev, doc, referencedOnly)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func newLoadedEvent(ev content.Event, doc content.Document, referencedOnly bool) *loadedEvent {
	attrs := content.NormalizeAttributes(doc.Attributes)
	le := &loadedEvent{
		ctx:   EventContext{Event: ev, Body: doc.Body, Images: ev.ImageSet()},
		attrs: attrs,
	}

	refs, bad := media.DecodeRefs(attrs["media"])
	for _, err := range bad {
		le.decodeFailures = append(le.decodeFailures, timeline.Unresolved{Path: ev.Dir, Reason: err.Error()})
	}

	if !referencedOnly {
		listed := make(map[string]bool, len(refs))
		for _, ref := range refs {
			listed[ref.Src] = true
		}
		for _, name := range ev.ImageFiles() {
			if !listed[name] {
				refs = append(refs, media.Ref{Src: name})
			}
		}
	}

	le.refs = refs
	return le
}

// dispatch admits jobs to the gate in order and resolves each in its own
// goroutine. The first fatal error stops admission and is returned.
func dispatch(ctx context.Context, r *Resolver, loaded []*loadedEvent, jobs []job, gate *workers.Gate) ([]Resolution, error) {
	resolutions := make([]Resolution, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		err := gate.Go(gctx, g, func() error {
			defer r.Progress.Done()

			ev := loaded[j.event]
			res, err := r.Resolve(gctx, ev.ctx, ev.refs[j.pos])
			if err != nil {
				return err
			}
			resolutions[i] = res
			return nil
		})
		if err != nil {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resolutions, nil
}

// assemble places resolutions back into their events and aggregates the
// timeline.
func assemble(runID string, opts Options, loaded []*loadedEvent, jobs []job, resolutions []Resolution) *Result {
	items := make([][]*media.Item, len(loaded))
	for i, ev := range loaded {
		if ev != nil {
			items[i] = make([]*media.Item, len(ev.refs))
		}
	}

	var (
		unresolved []timeline.Unresolved
		files      []string
		stats      Stats
	)
	for _, ev := range loaded {
		if ev != nil {
			unresolved = append(unresolved, ev.decodeFailures...)
		}
	}
	for i, j := range jobs {
		res := resolutions[i]
		items[j.event][j.pos] = res.Item
		files = append(files, res.Files...)
		if res.Unresolved != nil {
			unresolved = append(unresolved, *res.Unresolved)
		}
		switch res.Status {
		case StatusProcessed:
			stats.Processed++
		case StatusCached:
			stats.Cached++
		case StatusFailed:
			stats.Failed++
		}
	}

	var entries []timeline.Entry
	for i, ev := range loaded {
		if ev == nil {
			continue
		}
		var kept []media.Item
		for _, it := range items[i] {
			if it != nil {
				kept = append(kept, *it)
			}
		}
		html := content.RenderHTML(ev.ctx.Body)
		entries = append(entries, timeline.NewEntry(ev.attrs, html, kept, opts.Source))
	}
	stats.Events = len(entries)

	agg := timeline.Aggregate(entries, unresolved)

	logging.Info("All parsed tags: %s", strings.Join(agg.Tags, ", "))
	if report := timeline.FormatReport(agg.Unresolved); report != "" {
		logging.Warn("run %s: %s", runID, report)
	}
	logging.Info("run %s: %d events, %d processed, %d cached, %d failed",
		runID, stats.Events, stats.Processed, stats.Cached, stats.Failed)

	metrics.PipelineEvents.Set(float64(stats.Events))
	metrics.PipelineUnresolvedMedia.Set(float64(len(agg.Unresolved)))

	return &Result{
		RunID:        runID,
		Entries:      agg.Entries,
		OutputFiles:  files,
		Unresolved:   agg.Unresolved,
		Tags:         agg.Tags,
		VisitedAreas: agg.VisitedAreas,
		Stats:        stats,
	}
}

func countLoaded(loaded []*loadedEvent) int {
	n := 0
	for _, ev := range loaded {
		if ev != nil {
			n++
		}
	}
	return n
}
