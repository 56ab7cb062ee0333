// Package stockview provides the list-view primitives of the stockview
// inventory tool: multi-key sorting, the sort key stack driven by header
// clicks, and client-side pagination.
//
// # Overview
//
// Records arrive from the API as a full snapshot. A list view filters them,
// sorts them with MultiSort and slices the result with Paginate:
//   - SortKeys: an ordered stack of (field, direction) pairs; the first key is
//     the primary comparator and each following key breaks ties of the ones
//     before it.
//   - RequestSort: a pure reducer turning header clicks (optionally with the
//     multi-key modifier) into the next stack.
//   - Fields: maps field names of an entity to typed accessors, so only
//     declared fields can be sorted on.
//   - Pager: page number and page size for the sorted view.
//
// Sorting is stable, null values go last in ascending and first in descending
// order, and strings compare case-insensitively.
package stockview
