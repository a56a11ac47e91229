package preview

import "context"

// Rebuilder runs rebuild requests on a single worker. Requests that arrive
// while a rebuild is running collapse into one follow-up run.
type Rebuilder struct {
	run func(context.Context)
	req chan struct{}
}

// NewRebuilder creates a rebuilder around run.
func NewRebuilder(run func(context.Context)) *Rebuilder {
	return &Rebuilder{run: run, req: make(chan struct{}, 1)}
}

// Trigger requests a rebuild without blocking.
func (r *Rebuilder) Trigger() {
	select {
	case r.req <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.req:
			if ctx.Err() != nil {
				return
			}
			r.run(ctx)
		}
	}
}
