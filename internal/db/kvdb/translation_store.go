// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

const bucketTranslation = "translation_store"

func NewTranslationStore(bdb *bolt.DB) (*TranslationStore, error) {
	return &TranslationStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTranslation))
		return err
	})
}

type TranslationStore struct {
	db *bolt.DB
}

func (t *TranslationStore) ListLanguages(ctx context.Context) ([]string, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListLanguages")
	defer span.End()

	span.AddEvent("View bucket")
	langs := make([]string, 0)
	return langs, t.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTranslation))
		err := bucket.ForEach(func(k, _ []byte) error {
			langs = append(langs, string(k))
			return nil
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		sort.Strings(langs)
		return nil
	})
}

func (t *TranslationStore) ByLanguage(ctx context.Context, lang string) (*model.Translation, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ByLanguage")
	defer span.End()

	translation := &model.Translation{}
	return translation, t.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTranslation))
		res := bucket.Get([]byte(lang))
		if res == nil {
			span.RecordError(db.ErrNotFound)
			return fmt.Errorf("translation %q: %w", lang, db.ErrNotFound)
		}
		return json.Unmarshal(res, translation)
	})
}

func (t *TranslationStore) CreateLanguage(ctx context.Context, lang string, translation *model.Translation) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "CreateLanguage")
	defer span.End()

	return t.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTranslation))
		if bucket.Get([]byte(lang)) != nil {
			err := fmt.Errorf("language %q already exists", lang)
			span.RecordError(err)
			return err
		}
		j, err := json.Marshal(translation)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(lang), j)
	})
}

func (t *TranslationStore) UpdateLanguages(ctx context.Context, translations map[string]*model.Translation) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "UpdateLanguages")
	defer span.End()

	span.AddEvent("update languages", trace.WithAttributes(attribute.Int("count", len(translations))))
	data := make(map[string][]byte, len(translations))
	for lang, translation := range translations {
		j, err := json.Marshal(translation)
		if err != nil {
			tErr := fmt.Errorf("convert translation to json: %w", err)
			span.SetStatus(codes.Error, tErr.Error())
			return tErr
		}
		data[lang] = j
	}
	return t.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTranslation))
		for lang, translation := range data {
			if err := bucket.Put([]byte(lang), translation); err != nil {
				err := fmt.Errorf("update translation for language %q: %w", lang, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
		return nil
	})
}
