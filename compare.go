package stockview

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Fields is the accessor map for an entity type. List only the fields that may
// take part in sorting.
// Example:
//
//	stockview.Fields[product.Product]{
//		"name":     func(p product.Product) stockview.Value { return stockview.String(p.Name) },
//		"quantity": func(p product.Product) stockview.Value { return stockview.Int(p.Quantity) },
//	}
type Fields[T any] map[string]func(T) Value

// Names returns the declared field names in lexical order.
func (f Fields[T]) Names() []string {
	names := lo.Keys(f)
	slices.Sort(names)

	return names
}

// resolve validates keys against the declared fields and returns the
// accessors in priority order.
func (f Fields[T]) resolve(keys SortKeys) ([]func(T) Value, error) {
	if err := keys.validate(); err != nil {
		return nil, err
	}

	getters := make([]func(T) Value, 0, len(keys))
	for _, key := range keys {
		getter, ok := f[key.Field]
		if !ok {
			return nil, fmt.Errorf("cannot find accessor for sort field '%s'. closest: '%s'", key.Field, closestAlias(key.Field, f.Names()))
		}
		getters = append(getters, getter)
	}

	return getters, nil
}

// CompareKey compares a and b under a single sort key direction.
//
// A null value is the maximum regardless of direction: it goes after a
// non-null value for DirectionASC and before it for DirectionDESC. Two nulls
// compare equal so that the next key decides.
func CompareKey(a, b Value, direction Direction) int {
	return compareKey(a.folded(), b.folded(), direction)
}

func compareKey(a, b Value, direction Direction) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return direction.apply(1)
	case b.IsNull():
		return direction.apply(-1)
	}

	return direction.apply(compareFolded(a, b))
}

// Comparator builds the multi-key comparison function for keys. Keys are
// evaluated strictly in stack order, the first non-zero result wins.
func Comparator[T any](keys SortKeys, fields Fields[T]) (func(a, b T) int, error) {
	getters, err := fields.resolve(keys)
	if err != nil {
		return nil, err
	}

	return func(a, b T) int {
		for i, getter := range getters {
			if c := CompareKey(getter(a), getter(b), keys[i].Direction); c != 0 {
				return c
			}
		}

		return 0
	}, nil
}

// sortRow is a record with its sort values extracted and folded once.
type sortRow[T any] struct {
	record T
	values []Value
}

// MultiSort returns records ordered by keys. The input slice is never
// modified.
//
// An empty stack returns the records in their original order. Otherwise a
// single stable sort is performed, so records that compare equal under every
// key keep their relative input order.
//
// The only errors are about the stack itself: an unknown, duplicated or
// malformed field, or an invalid direction.
func MultiSort[T any](records []T, keys SortKeys, fields Fields[T]) ([]T, error) {
	if len(keys) == 0 {
		return slices.Clone(records), nil
	}

	getters, err := fields.resolve(keys)
	if err != nil {
		return nil, fmt.Errorf("cannot sort: %w", err)
	}

	rows := lo.Map(records, func(record T, _ int) sortRow[T] {
		return sortRow[T]{
			record: record,
			values: lo.Map(getters, func(getter func(T) Value, _ int) Value {
				return getter(record).folded()
			}),
		}
	})

	slices.SortStableFunc(rows, func(a, b sortRow[T]) int {
		for i, key := range keys {
			if c := compareKey(a.values[i], b.values[i], key.Direction); c != 0 {
				return c
			}
		}

		return 0
	})

	return lo.Map(rows, func(row sortRow[T], _ int) T { return row.record }), nil
}
