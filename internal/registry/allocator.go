// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

// Package registry keeps a guest's five cash-gift category amounts within
// the pledged total, redistributing proportionally when an edit would
// push the sum over.
package registry

import (
	"math"

	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

// Allocator holds the working state of the registry form: a total amount
// and one integer amount per category. Whole-dollar semantics throughout;
// fractional input truncates toward zero. After every operation the
// invariant holds: every amount is in [0, total] and the sum never
// exceeds the total.
type Allocator struct {
	total   int
	amounts map[model.Category]int
}

func NewAllocator() *Allocator {
	a := &Allocator{amounts: make(map[model.Category]int, 5)}
	for _, c := range model.Categories() {
		a.amounts[c] = 0
	}
	return a
}

// FromAllocation seeds the form state from a previously stored plan.
func FromAllocation(stored *model.Allocation) *Allocator {
	a := NewAllocator()
	if stored == nil {
		return a
	}
	a.SetTotal(float64(stored.TotalAmount))
	for _, c := range model.Categories() {
		if v, ok := stored.Amounts[c]; ok {
			a.SetCategory(c, float64(v))
		}
	}
	return a
}

func (a *Allocator) Total() int { return a.total }

func (a *Allocator) Amount(c model.Category) int { return a.amounts[c] }

func (a *Allocator) Sum() int {
	var sum int
	for _, v := range a.amounts {
		sum += v
	}
	return sum
}

// SetTotal changes the pledged total and clamps every category down to the
// new ceiling; if the clamped amounts still sum past the new total they are
// reduced proportionally. A zero total means "not participating":
// everything resets.
func (a *Allocator) SetTotal(raw float64) {
	a.total = truncNonNegative(raw)
	for c, v := range a.amounts {
		if v > a.total {
			a.amounts[c] = a.total
		}
	}
	if over := a.Sum() - a.total; over > 0 {
		a.shed(over, "")
	}
	a.settle("")
}

// SetCategory clamps the edited amount to [0, total] and then reduces the
// other categories so the sum fits again. Each other category gives up a
// share proportional to its current value; when all others are already at
// zero the excess is split evenly (rounded up), flooring at zero.
func (a *Allocator) SetCategory(changed model.Category, raw float64) {
	if _, ok := a.amounts[changed]; !ok {
		return
	}
	v := truncNonNegative(raw)
	if v > a.total {
		v = a.total
	}
	a.amounts[changed] = v

	if over := a.Sum() - a.total; over > 0 {
		a.shed(over, changed)
	}
	a.settle(changed)
}

// shed takes `over` away from every category except `skip`, each giving up
// a share proportional to its current value; when the pool is empty the
// excess splits evenly, rounded up. Amounts floor at zero.
func (a *Allocator) shed(over int, skip model.Category) {
	others := make([]model.Category, 0, len(a.amounts))
	pool := 0
	for _, c := range model.Categories() {
		if c == skip {
			continue
		}
		others = append(others, c)
		pool += a.amounts[c]
	}

	for _, c := range others {
		cur := a.amounts[c]
		var cut int
		if pool > 0 {
			cut = int(math.Round(float64(over) * float64(cur) / float64(pool)))
		} else {
			cut = (over + len(others) - 1) / len(others)
		}
		if next := cur - cut; next > 0 {
			a.amounts[c] = next
		} else {
			a.amounts[c] = 0
		}
	}
}

// settle absorbs whatever rounding left behind: while the sum still
// exceeds the total, categories other than `skip` lose one dollar each in
// display order. At most a few iterations, since rounding error per pass
// is bounded by the category count.
func (a *Allocator) settle(skip model.Category) {
	for a.Sum() > a.total {
		reduced := false
		for _, c := range model.Categories() {
			if c == skip || a.amounts[c] == 0 {
				continue
			}
			a.amounts[c]--
			reduced = true
			if a.Sum() <= a.total {
				return
			}
		}
		if !reduced {
			return
		}
	}
}

// Snapshot produces the document to persist: zero-valued categories are
// dropped, only positive allocations are stored.
func (a *Allocator) Snapshot(userID uuid.UUID) *model.Allocation {
	alloc := &model.Allocation{
		UserID:      userID,
		TotalAmount: a.total,
	}
	for c, v := range a.amounts {
		if v > 0 {
			if alloc.Amounts == nil {
				alloc.Amounts = make(map[model.Category]int)
			}
			alloc.Amounts[c] = v
		}
	}
	return alloc
}

func truncNonNegative(raw float64) int {
	if raw <= 0 || math.IsNaN(raw) {
		return 0
	}
	return int(raw)
}
