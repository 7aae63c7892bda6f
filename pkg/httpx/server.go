package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type logger interface {
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=server_options.gen.go -from-struct=Options
type Options struct {
	addr    string       `option:"mandatory" validate:"required,hostname_port"`
	handler http.Handler `option:"mandatory" validate:"required"`

	logger logger

	readHeaderTimeout time.Duration `default:"5s"`
	shutdownTimeout   time.Duration `default:"10s"`
}

type Server struct {
	opts Options
	srv  *http.Server
}

func New(opts Options) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("http server validate: %v", err)
	}

	if opts.logger == nil {
		opts.logger = &noopLogger{}
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           opts.handler,
		ReadHeaderTimeout: opts.readHeaderTimeout,
	}

	return &Server{opts: opts, srv: srv}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// at most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
		defer cancel()

		_ = s.srv.Shutdown(shutdownCtx)
	}()

	s.opts.logger.Info(
		ctx,
		"run http server",
		slog.String("addr", s.opts.addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %v", err)
	}

	return nil
}

type noopLogger struct{}

func (n *noopLogger) Info(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
}
