/*
Package workers sizes and bounds the concurrent work of the media pipeline.

# Gate

Gate is the pipeline's admission control for media items. Every media reference,
whatever its variant and whether or not it turns out to be a cache hit, passes through
the gate before it is resolved:

	gate := workers.NewGate(cfg.MaxConcurrent)
	g, gctx := errgroup.WithContext(ctx)

	for _, item := range items {
	    if err := gate.Go(gctx, g, func() error { return resolve(item) }); err != nil {
	        break
	    }
	}
	return g.Wait()

Gate is backed by golang.org/x/sync/semaphore, whose waiters are served strictly in
arrival order. Go takes the slot in the calling goroutine, so a single dispatcher
calling it in scan order admits items in scan order. The slot is released by a
deferred call in the spawned goroutine, on every exit path of the function.

# Sizing

Count, ForCPU and ForMixed compute worker counts from GOMAXPROCS, which Go 1.19+
derives from container CPU limits. GateSize maps the configured
MAX_CONCURRENT_IMAGE_PROCESSES value onto a gate size, where 0 means one slot per CPU.
*/
package workers
