package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	asyncapi "github.com/AimPizza/malbuch/server/api/async"
	restapi "github.com/AimPizza/malbuch/server/api/rest"
	wsapi "github.com/AimPizza/malbuch/server/api/ws"
	"github.com/AimPizza/malbuch/server/config"
	"github.com/AimPizza/malbuch/server/internal/assets"
	"github.com/AimPizza/malbuch/server/internal/blobstorage/filesystem"
	"github.com/AimPizza/malbuch/server/internal/emitter"
	"github.com/AimPizza/malbuch/server/internal/interceptors"
	"github.com/AimPizza/malbuch/server/internal/store/jsondb"
	"github.com/AimPizza/malbuch/server/internal/upload"
)

const (
	appName = "malbuch-server"

	shutdownTimeout = 5 * time.Second
)

func main() {
	opts, err := config.Parse(appName, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var traceOut io.Writer
	if opts.TraceStdout {
		traceOut = os.Stdout
	}
	tp, err := interceptors.InitTracing(appName, traceOut)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Failed to shutdown tracer")
		}
	}()

	fileStorage, err := filesystem.New(logger, opts.ContentDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize content directory")
	}
	defer fileStorage.Close()

	e := emitter.New(emitter.DefaultBufferSize)

	journal, err := jsondb.New(logger, opts.MetadataFile, e)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize metadata journal")
	}

	assetService := assets.NewService(logger, fileStorage, journal)
	fileServer := restapi.NewFileServer(logger, assetService)
	uploadServer := restapi.NewUploadServer(logger, upload.NewDecoder(logger, opts.MaxUploadBytes), assetService)
	feed := wsapi.NewFeed(logger, opts.CORSOrigins)

	janitor, err := asyncapi.NewJanitor(logger, fileStorage, opts.StagingMaxAge, opts.SweepInterval, prometheus.DefaultRegisterer)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize janitor")
	}
	auditor, err := asyncapi.NewAuditor(logger, fileStorage, journal, asyncapi.AuditorConfig{
		ContentDir:  opts.ContentDir,
		JournalPath: opts.MetadataFile,
		Debounce:    opts.AuditDebounce,
	}, prometheus.DefaultRegisterer)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize consistency auditor")
	}

	var wg sync.WaitGroup
	// the feed drains the emitter until it's closed, after the server stopped mutating the journal
	wg.Go(func() { feed.Run(context.WithoutCancel(ctx), e.Chan()) })
	wg.Go(func() { janitor.Run(ctx) })
	wg.Go(func() {
		if err := auditor.Run(ctx); err != nil {
			logger.WithError(err).Error("Consistency auditor stopped")
		}
	})

	mux := http.NewServeMux()
	restapi.RegisterRoutes(logger, mux, fileServer, uploadServer)
	mux.Handle("GET /events", feed)
	// Expose the registered metrics via HTTP
	mux.Handle("GET /metrics", promhttp.Handler())

	handler, err := interceptors.InterceptWithDefaultMetrics(prometheus.DefaultRegisterer, mux)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize http metrics")
	}
	handler = interceptors.CORS(opts.CORSOrigins, handler)
	handler = interceptors.AccessLog(logger, handler)
	handler = otelhttp.NewHandler(handler, appName)

	srv := &http.Server{
		Addr:              opts.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"addr":          opts.ServerAddr,
		"content_dir":   opts.ContentDir,
		"metadata_file": opts.MetadataFile,
	}).Info("Starting server")
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		logger.WithError(err).Fatal("Server failed with error")
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.WithError(err).Error("Failed to shutdown server gracefully")
	}

	// no more journal mutations from here on
	e.Close()
	wg.Wait()
	logger.Info("Server stopped")
}

func newLogger(opts *config.Options) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	if opts.Quiet {
		logger.SetLevel(logrus.InfoLevel)
	}
	if opts.LogFormat == config.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.AddHook(&interceptors.TraceHook{})
	return logger
}
