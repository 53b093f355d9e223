package kvdb

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

const bucketRegistry = "registry_store"

func NewRegistryStore(bdb *bolt.DB) (*RegistryStore, error) {
	return &RegistryStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRegistry))
		return err
	})
}

type RegistryStore struct {
	db *bolt.DB
}

func (r *RegistryStore) GetAllocation(ctx context.Context, userID uuid.UUID) (*model.Allocation, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetAllocation")
	defer span.End()

	alloc := &model.Allocation{}
	return alloc, r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRegistry))
		res := bucket.Get(userID[:])
		if res == nil {
			span.RecordError(db.ErrNotFound)
			return db.ErrNotFound
		}
		return json.Unmarshal(res, alloc)
	})
}

// PutAllocation overwrites the single allocation document keyed by the
// submitting guest's id. Last write wins.
func (r *RegistryStore) PutAllocation(ctx context.Context, alloc *model.Allocation) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "PutAllocation")
	defer span.End()

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRegistry))
		j, err := json.Marshal(alloc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return bucket.Put(alloc.UserID[:], j)
	})
}
