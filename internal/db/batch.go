// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"
	"errors"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

// ErrPlusOneExists aborts a batch that would create a second plus-one
// guest for the same inviter. Resubmitting after this error is safe: the
// remaining writes are keyed overwrites.
var ErrPlusOneExists = errors.New("plus-one already exists for inviter")

// BatchWriter applies a complete write set in one storage transaction.
// Either every document in the set is written or none are; concurrent
// readers never observe a half-applied submission. Writes are keyed
// overwrites, so re-applying the same set is safe.
type BatchWriter interface {
	Apply(context.Context, *model.WriteSet) error
}
