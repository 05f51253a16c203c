package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"timeline-media/internal/cache"
	"timeline-media/internal/content"
	"timeline-media/internal/filesystem"
	"timeline-media/internal/logging"
	"timeline-media/internal/media"
	"timeline-media/internal/metrics"
	"timeline-media/internal/timeline"
)

// Status values reported per resolved reference.
const (
	StatusProcessed = "processed"
	StatusCached    = "cached"
	StatusFailed    = "failed"
)

// Resolution is the outcome of resolving one media reference. Exactly one
// of Item and Unresolved is set.
type Resolution struct {
	Item       *media.Item
	Unresolved *timeline.Unresolved
	Status     string

	// Files lists the destination files backing the item, written now or
	// found from an earlier run.
	Files []string
}

// EventContext is what the resolver needs to know about the owning event.
type EventContext struct {
	Event  content.Event
	Body   string
	Images map[string]bool
}

// Resolver turns media references into items, reusing earlier results
// where possible.
type Resolver struct {
	DestDir       string
	DestDirClient string
	Source        string

	Store       *cache.Store
	Previous    *cache.PreviousIndex
	Transformer *media.Transformer
	Prober      *media.Prober
	Progress    *Progress

	Retry filesystem.RetryConfig
}

// Resolve classifies ref and produces its item. Per-item failures come
// back as Resolution.Unresolved; a returned error means the run cannot
// continue.
func (r *Resolver) Resolve(ctx context.Context, ev EventContext, ref media.Ref) (Resolution, error) {
	c := media.Classify(ref.Src, ev.Images)

	var (
		res Resolution
		err error
	)
	switch c.Kind {
	case media.KindLocalImage:
		res, err = r.resolveLocal(ctx, ev, ref, c)
	case media.KindYouTube:
		res = r.resolveYouTube(ctx, ev, ref, c)
	case media.KindRemoteImage:
		res = r.resolveRemote(ctx, ev, ref)
	default:
		res = r.unresolved(ev, ref, c.Err)
		if !strings.Contains(ref.Src, "://") {
			res.Unresolved.Hint = timeline.Suggest(ref.Src, ev.Event.ImageFiles())
		}
	}
	if err != nil {
		return Resolution{}, err
	}

	if res.Item != nil && r.Source != "" {
		res.Item.Source = r.Source
	}
	metrics.MediaResolvedTotal.WithLabelValues(c.Kind.String(), res.Status).Inc()
	return res, nil
}

func (r *Resolver) resolveLocal(ctx context.Context, ev EventContext, ref media.Ref, c media.Classification) (Resolution, error) {
	path := ev.Event.Path(c.Name)
	data, err := filesystem.ReadFileWithRetry(path, r.Retry)
	if err != nil {
		return Resolution{}, fmt.Errorf("read media %s: %w", path, err)
	}

	dest := cache.NewDestination(cache.Digest(data), c.Ext, r.DestDir, r.DestDirClient)

	item, _ := r.Previous.Lookup(dest.ClientImage)
	if caption := content.Caption(ev.Body); caption != "" {
		item.Caption = caption
	}
	item.Apply(ref.Fields)
	item.Type = media.TypeImage
	item.Src = dest.ClientImage
	item.Thumbnail = dest.ClientThumbnail

	files := []string{dest.Image, dest.Thumbnail}

	complete, err := r.Store.Complete(dest)
	if err != nil {
		return Resolution{}, err
	}
	if complete {
		// Outputs from a run whose data file was lost: measure the source
		// header instead of rendering again.
		if item.Width == 0 || item.Height == 0 {
			if dims, _, err := media.DecodeDimensions(bytes.NewReader(data)); err == nil {
				item.Width, item.Height = dims.Width, dims.Height
			}
		}
		r.status(StatusCached, path)
		return Resolution{Item: &item, Status: StatusCached, Files: files}, nil
	}

	r.status("processing", path)
	out, err := r.Transformer.Transform(ctx, data, c.Ext, dest.Image, dest.Thumbnail)
	if errors.Is(err, media.ErrDecode) {
		logging.Error("Error when processing %s: %v", path, err)
		return r.unresolved(ev, ref, err), nil
	}
	if err != nil {
		return Resolution{}, err
	}

	item.Width = out.Width
	item.Height = out.Height
	if !out.CapturedAt.IsZero() {
		item.CapturedAt = out.CapturedAt
	}
	return Resolution{Item: &item, Status: StatusProcessed, Files: files}, nil
}

func (r *Resolver) resolveYouTube(ctx context.Context, ev EventContext, ref media.Ref, c media.Classification) Resolution {
	src := media.YouTubeEmbedURL(c.VideoID)

	item, cached := r.Previous.Lookup(src)
	item.Apply(ref.Fields)
	item.Src = src
	item.Type = media.TypeYouTube
	item.Thumbnail = media.YouTubeThumbnailURL(c.VideoID)
	item.Link = media.YouTubeWatchURL(c.VideoID)

	if cached {
		r.status(StatusCached, src)
		return Resolution{Item: &item, Status: StatusCached}
	}

	r.status("processing", src)
	dims, err := r.Prober.Dimensions(ctx, item.Thumbnail)
	if err != nil {
		logging.Error("Error when processing %s: %v", item.Thumbnail, err)
		return r.unresolved(ev, ref, err)
	}
	item.Width, item.Height = dims.Width, dims.Height
	return Resolution{Item: &item, Status: StatusProcessed}
}

func (r *Resolver) resolveRemote(ctx context.Context, ev EventContext, ref media.Ref) Resolution {
	var item media.Item
	item.Apply(ref.Fields)
	item.Src = ref.Src
	item.Type = media.TypeImage

	if prev, ok := r.Previous.Lookup(ref.Src); ok {
		item.Width, item.Height = prev.Width, prev.Height
		r.status(StatusCached, ref.Src)
		return Resolution{Item: &item, Status: StatusCached}
	}

	r.status("processing", ref.Src)
	dims, err := r.Prober.Dimensions(ctx, ref.Src)
	if err != nil {
		logging.Error("Error when processing %s: %v", ref.Src, err)
		return r.unresolved(ev, ref, err)
	}
	item.Width, item.Height = dims.Width, dims.Height
	return Resolution{Item: &item, Status: StatusProcessed}
}

func (r *Resolver) unresolved(ev EventContext, ref media.Ref, reason error) Resolution {
	if reason == nil {
		reason = media.ErrUnrecognized
	}
	return Resolution{
		Status: StatusFailed,
		Unresolved: &timeline.Unresolved{
			Path:   ev.Event.Dir,
			Src:    ref.Src,
			Reason: reason.Error(),
		},
	}
}

func (r *Resolver) status(status, name string) {
	if r.Progress != nil {
		r.Progress.Status(status, name)
	}
}
