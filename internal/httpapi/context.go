package httpapi

import (
	"context"
)

// serverBaseCtx is the daemon's root context, canceled on shutdown. Mutating
// handlers (refresh, removals) join it with the request context so an
// operator command in flight does not outlive the daemon.
var serverBaseCtx = context.Background()

// SetBaseContext installs the daemon's root context. A nil ctx resets to
// Background, which never cancels.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context that ends when either the daemon or the
// request goes away. Callers must invoke cancel when the handler returns to
// release the watcher goroutine.
func joinContexts(daemon, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-daemon.Done():
			cancel()
		case <-req.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
