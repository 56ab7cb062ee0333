package stockview

import (
	"slices"
)

// SortClick is a click on a sortable column header. MultiKey reports whether
// the multi-key modifier (shift) was held.
type SortClick struct {
	Field    string
	MultiKey bool
}

// Reduce returns the stack that results from applying click to keys.
func Reduce(keys SortKeys, click SortClick) SortKeys {
	return RequestSort(keys, click.Field, click.MultiKey)
}

// RequestSort translates a header click into a new sort key stack. keys is
// never modified.
//
//   - A field already in the stack cycles in place: ASC becomes DESC, DESC
//     removes the key.
//   - A new field with the modifier held becomes the secondary key behind the
//     current primary one. Keys after the primary are dropped.
//   - A new field without the modifier replaces the whole stack.
func RequestSort(keys SortKeys, field string, multiKey bool) SortKeys {
	idx := keys.IndexOf(field)
	if idx != -1 {
		if keys[idx].Direction == DirectionASC {
			ret := slices.Clone(keys)
			ret[idx].Direction = ret[idx].Direction.Flip()

			return ret
		}

		return slices.Delete(slices.Clone(keys), idx, idx+1)
	}

	newKey := SortKey{Field: field, Direction: DirectionASC}
	if multiKey && len(keys) > 0 {
		return SortKeys{keys[0], newKey}
	}

	return SortKeys{newKey}
}

// IndexOf returns the 0-based position of field in the stack, or -1.
func (k SortKeys) IndexOf(field string) int {
	return slices.IndexFunc(k, func(key SortKey) bool {
		return key.Field == field
	})
}

// PriorityOf returns the 1-based position of field in the stack. The second
// return value is false when the field is not sorted.
func (k SortKeys) PriorityOf(field string) (int, bool) {
	idx := k.IndexOf(field)
	if idx == -1 {
		return 0, false
	}

	return idx + 1, true
}

// DirectionOf returns the direction field is sorted in, if it is sorted.
func (k SortKeys) DirectionOf(field string) (Direction, bool) {
	idx := k.IndexOf(field)
	if idx == -1 {
		return "", false
	}

	return k[idx].Direction, true
}
