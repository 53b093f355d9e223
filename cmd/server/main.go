// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ssiatkowski/wedding-website/internal/config"
	"github.com/ssiatkowski/wedding-website/internal/db/kvdb"
	"github.com/ssiatkowski/wedding-website/internal/server"
)

func main() {
	var (
		serviceName = flag.String("service-name", "wedding-website", "otel service name")
		logLevelArg = flag.String("log-level", "INFO", "log level")
	)
	flag.Parse()

	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(jsonHandler)
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("start and listen", "address", cfg.Addr)
	logger.Info("otlp/gRPC", "address", cfg.OTLPEndpoint, "service", *serviceName)

	if cfg.OTLPEndpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		grpcOptions := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock()}
		conn, err := grpc.DialContext(ctx, cfg.OTLPEndpoint, grpcOptions...)
		if err != nil {
			logger.Error("failed to create gRPC connection to collector", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		otelExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			logger.Error("failed to create trace exporter", "error", err)
			os.Exit(1)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(otelExporter))
		otel.SetTracerProvider(tp)
	}

	bdb, err := bolt.Open(cfg.DBPath, 0600, nil)
	if err != nil {
		logger.Error("could not open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer bdb.Close()

	guestStore, err := kvdb.NewGuestStore(bdb)
	if err != nil {
		logger.Error("could not initialize guest bucket", "error", err)
		os.Exit(1)
	}
	eventStore, err := kvdb.NewEventStore(bdb)
	if err != nil {
		logger.Error("could not initialize event bucket", "error", err)
		os.Exit(1)
	}
	rsvpStore, err := kvdb.NewRSVPStore(bdb)
	if err != nil {
		logger.Error("could not initialize rsvp bucket", "error", err)
		os.Exit(1)
	}
	translationStore, err := kvdb.NewTranslationStore(bdb)
	if err != nil {
		logger.Error("could not initialize translation bucket", "error", err)
		os.Exit(1)
	}
	registryStore, err := kvdb.NewRegistryStore(bdb)
	if err != nil {
		logger.Error("could not initialize registry bucket", "error", err)
		os.Exit(1)
	}
	batch, err := kvdb.NewBatchWriter(bdb)
	if err != nil {
		logger.Error("could not initialize batch writer", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.NewServer(
			*serviceName,
			cfg,
			guestStore,
			eventStore,
			rsvpStore,
			rsvpStore,
			translationStore,
			registryStore,
			batch,
		),
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("error during listen and serve", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown")
}
