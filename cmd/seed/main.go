// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	bolt "go.etcd.io/bbolt"

	"github.com/ssiatkowski/wedding-website/internal/db/kvdb"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

// seedFile is the shape of a testdata seed: the full guest list grouped
// by household, the event schedule and the translations per language.
type seedFile struct {
	Guests       []*model.Guest                `json:"guests"`
	Events       []*model.Event                `json:"events"`
	Translations map[string]*model.Translation `json:"translations"`
}

func main() {
	var (
		input       = flag.String("input", "testdata/seed.json", "path to the seed file")
		output      = flag.String("output", "wedding.db", "path to the database to fill")
		logLevelArg = flag.String("log-level", "INFO", "log level")
	)
	flag.Parse()

	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("could not read seed file", "path", *input, "error", err)
		os.Exit(1)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		logger.Error("could not parse seed file", "path", *input, "error", err)
		os.Exit(1)
	}

	bdb, err := bolt.Open(*output, 0600, nil)
	if err != nil {
		logger.Error("could not open database", "path", *output, "error", err)
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
	translationStore, err := kvdb.NewTranslationStore(bdb)
	if err != nil {
		logger.Error("could not initialize translation bucket", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info("start seeding", "input", *input, "output", *output)

	for _, g := range seed.Guests {
		id, err := guestStore.CreateGuest(ctx, g)
		if err != nil {
			logger.Error("could not create guest", "name", g.FullName(), "error", err)
			os.Exit(1)
		}
		logger.Debug("created guest", "id", id, "name", g.FullName(), "group", g.GroupID)
	}
	for _, ev := range seed.Events {
		if err := eventStore.UpdateEvent(ctx, ev); err != nil {
			logger.Error("could not store event", "id", ev.ID, "error", err)
			os.Exit(1)
		}
	}
	for lang, t := range seed.Translations {
		if err := translationStore.CreateLanguage(ctx, lang, t); err != nil {
			logger.Error("could not store translation", "lang", lang, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("finished seeding",
		"guests", len(seed.Guests),
		"events", len(seed.Events),
		"languages", len(seed.Translations),
	)
}
