package upsert

import (
	"context"
	"errors"
	"slices"
)

// ErrIndexOutOfRange is returned for an entry index outside the array.
var ErrIndexOutOfRange = errors.New("upsert: entry index out of range")

// Policy keeps a flag exclusive across the entries of an array: when the
// submitted entry Holds the flag, every other holder is Demoted.
type Policy[E any] struct {
	Holds  func(E) bool
	Demote func(E) E
}

// Upsert stores item at index, or appends it when index is negative or equal
// to len(items). Policies are applied relative to the stored entry. items is
// not modified.
func Upsert[E any](items []E, index int, item E, policies ...Policy[E]) ([]E, error) {
	if index > len(items) {
		return items, ErrIndexOutOfRange
	}
	out := slices.Clone(items)
	if index < 0 || index == len(items) {
		index = len(out)
		out = append(out, item)
	} else {
		out[index] = item
	}

	for _, p := range policies {
		if !p.Holds(item) {
			continue
		}
		for i := range out {
			if i != index && p.Holds(out[i]) {
				out[i] = p.Demote(out[i])
			}
		}
	}
	return out, nil
}

// Remove deletes the entry at index once the operator confirms. The entry is
// gone only when the result is Submitted. items is not modified.
func Remove[E any](ctx context.Context, items []E, index int, c Confirmer, opts ConfirmOptions) ([]E, Result, error) {
	if index < 0 || index >= len(items) {
		return items, Failed, ErrIndexOutOfRange
	}
	if c != nil {
		ok, err := c.Confirm(ctx, opts)
		switch {
		case errors.Is(err, ErrConfirmationPending):
			return items, Pending, nil
		case err != nil:
			return items, Failed, err
		case !ok:
			return items, Declined, nil
		}
	}
	return slices.Delete(slices.Clone(items), index, index+1), Submitted, nil
}
