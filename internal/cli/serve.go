package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/coroutines/internal/adapters/http"
	"github.com/aretw0/coroutines/pkg/observability"
	"github.com/aretw0/coroutines/pkg/runner"
)

const shutdownTimeout = 5 * time.Second

// Serve runs one timeline forever and exposes the status API on ln until
// ctx ends. Scripts posted to the API are started on the ticking goroutine.
func Serve(ctx context.Context, env *Env, ln net.Listener) error {
	src, err := env.clockSource(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = src.close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := observability.NewStream(64)
	tl := env.NewTimeline("serve", src.clock, src.hooks, stream.Hooks())
	loop := runner.NewLoop(
		runner.WithInterval(env.FrameInterval()),
		runner.WithLoopLogger(env.Logger),
	)

	srv := &http.Server{
		Handler: httpadapter.NewHandler(tl,
			httpadapter.WithDispatcher(loop),
			httpadapter.WithGatherer(env.Registry),
			httpadapter.WithEvents(stream),
		),
		ReadHeaderTimeout: 5 * time.Second,
		// Request contexts end with ctx so event streams let go on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
	}()
	loop.Schedule(func() { tl.StartTicking(loop.Schedule) })

	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("status api listening", "addr", ln.Addr().String(), "timeline", tl.Name())
		serverErrors <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
	}

	tl.SetActive(false)
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		env.Logger.Warn("graceful shutdown did not complete", "err", err)
		_ = srv.Close()
	}
	<-loopDone

	env.Logger.Info("status api stopped")
	return serveErr
}
