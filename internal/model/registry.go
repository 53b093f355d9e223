package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the five fixed cash-gift funds.
type Category string

const (
	CategoryHoneymoon     Category = "honeymoon"
	CategoryPuppy         Category = "puppy"
	CategoryBaby          Category = "baby"
	CategoryHouse         Category = "house"
	CategoryEntertainment Category = "entertain"
)

// Categories lists the funds in display order.
func Categories() []Category {
	return []Category{
		CategoryHoneymoon,
		CategoryPuppy,
		CategoryBaby,
		CategoryHouse,
		CategoryEntertainment,
	}
}

// Allocation is one guest's cash-gift plan: a total pledged amount in whole
// dollars and a breakdown across the fixed categories. Zero-valued
// categories are dropped before persisting, so Amounts only carries
// positive entries.
type Allocation struct {
	UserID      uuid.UUID        `json:"user_id"`
	TotalAmount int              `json:"total_amount"`
	Amounts     map[Category]int `json:"amounts,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Equal compares total and per-category amounts, ignoring the timestamp.
// Used to skip redundant writes on resubmission.
func (a *Allocation) Equal(b *Allocation) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.UserID != b.UserID || a.TotalAmount != b.TotalAmount {
		return false
	}
	if len(a.Amounts) != len(b.Amounts) {
		return false
	}
	for k, v := range a.Amounts {
		if b.Amounts[k] != v {
			return false
		}
	}
	return true
}
