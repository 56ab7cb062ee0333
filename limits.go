package stockview

// Page size limits.
const (
	// NoLimit puts every item on a single page.
	NoLimit        = -1
	MaxPerPage     = 100
	DefaultPerPage = 10
)

// IsNormalizedPerPageMax brings perPage into [1, maxPerPage]. Sizes below 1
// become DefaultPerPage (never more than maxPerPage). The bool is true when
// perPage needed no change.
func IsNormalizedPerPageMax(perPage int, maxPerPage int) (int, bool) {
	switch {
	case perPage <= 0:
		return min(DefaultPerPage, maxPerPage), false
	case perPage > maxPerPage:
		return maxPerPage, false
	default:
		return perPage, true
	}
}

func NormalizePerPageMax(perPage int, maxPerPage int) int {
	ret, _ := IsNormalizedPerPageMax(perPage, maxPerPage)
	return ret
}

func NormalizePerPage(perPage int) int {
	return NormalizePerPageMax(perPage, MaxPerPage)
}

// pageBounds returns the [start, end) slice bounds of a 1-based page over
// total items. page must already be within range.
func pageBounds(page, perPage, total int) (int, int) {
	if perPage == NoLimit {
		return 0, total
	}

	start := min((page-1)*perPage, total)

	return start, min(start+perPage, total)
}
