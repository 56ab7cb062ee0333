package stockview

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction of a single sort key.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (d Direction) Valid() bool {
	return d == DirectionASC || d == DirectionDESC
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	switch d {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		panic(fmt.Errorf("cannot flip direction '%s'", d))
	}
}

// apply turns a natural comparison result into a result for this direction.
func (d Direction) apply(cmp int) int {
	return lo.Ternary(d == DirectionDESC, -cmp, cmp)
}

// ParseDirection parses "asc" / "desc" in any letter case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid sort direction '%s'", s)
	}

	return d, nil
}

type (
	// SortKeys is the sort key stack. Insertion order is priority order: the
	// first key is the primary comparator, the second breaks its ties, and so on.
	SortKeys []SortKey
	SortKey  struct {
		Field     string    `json:"field"`
		Direction Direction `json:"direction"`
	}

	FieldAlias = string

	// FieldMapping maps external field aliases (query strings, API payloads)
	// to declared field names.
	FieldMapping = map[FieldAlias]string
)

var _availableFieldNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (k SortKey) validate() error {
	if !k.Direction.Valid() {
		return fmt.Errorf("invalid sort direction '%s'", k.Direction)
	}

	if k.Field == "" {
		return fmt.Errorf("empty sort field")
	}

	// Keys are rendered into ORDER BY clauses, so the field name is restricted.
	if !lo.Every(_availableFieldNameSymbols, []rune(k.Field)) {
		return fmt.Errorf("sort field name contains forbidden symbols '%s'", k.Field)
	}

	return nil
}

// Fields returns the field names of the stack in priority order.
func (k SortKeys) Fields() []string {
	return lo.Map(k, func(key SortKey, _ int) string { return key.Field })
}

// ToSQLSlice converts SortKeys to a slice of strings in the form
// "<field> <direction>" suitable for SQL query builders.
//
// Example: for SortKeys: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (k SortKeys) ToSQLSlice() []string {
	ret := make([]string, 0, len(k))
	for _, key := range k {
		ret = append(ret, fmt.Sprintf("%s %s", key.Field, key.Direction))
	}

	return ret
}

// ToSQL converts SortKeys to a single string
// "<field_1> <direction_1>, <field_2> <direction_2>".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM products ORDER BY %s", keys.ToSQL())
func (k SortKeys) ToSQL() string {
	return strings.Join(k.ToSQLSlice(), ", ")
}

// Apply applies the stack to a gorm query. An empty stack leaves the query as is.
func (k SortKeys) Apply(db *gorm.DB) *gorm.DB {
	if len(k) == 0 {
		return db
	}

	return db.Order(k.ToSQL())
}

// validate checks that every key is well formed and that no field occurs twice.
// An empty stack is valid: it stands for the natural order of the records.
func (k SortKeys) validate() error {
	seen := make(map[string]struct{}, len(k))
	for _, key := range k {
		if err := key.validate(); err != nil {
			return err
		}

		if _, ok := seen[key.Field]; ok {
			return fmt.Errorf("duplicated sort field '%s'", key.Field)
		}
		seen[key.Field] = struct{}{}
	}

	return nil
}

// ParseSort builds SortKeys from a list of strings in the format
// "field asc|desc". Field aliases are resolved via FieldMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(items []string, mapping FieldMapping) (SortKeys, error) {
	ret := make(SortKeys, 0, len(items))
	aliases := lo.Keys(mapping)

	for _, item := range items {
		parts := strings.Fields(item)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid sort string format '%s'", item)
		}

		alias := parts[0]
		direction, err := ParseDirection(parts[1])
		if err != nil {
			return nil, err
		}

		field := mapping[alias]
		if field == "" {
			return nil, fmt.Errorf("invalid sort field alias '%s'. closest: '%s'", alias, closestAlias(alias, aliases))
		}

		ret = append(ret, SortKey{
			Field:     field,
			Direction: direction,
		})
	}

	if err := ret.validate(); err != nil {
		return nil, err
	}

	return ret, nil
}

func closestAlias(input FieldAlias, dataSet []FieldAlias) FieldAlias {
	minDist := math.MaxInt
	closest := ""

	for _, alias := range dataSet {
		dist := levenshtein([]rune(alias), []rune(input))
		// Ties go to the lexically smaller alias so the hint is stable
		// regardless of map iteration order.
		if dist < minDist || (dist == minDist && alias < closest) {
			minDist = dist
			closest = alias
		}
	}

	return closest
}
