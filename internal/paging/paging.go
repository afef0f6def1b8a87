package paging

// PageSize is the fixed number of recommendations per page.
const PageSize = 5

// WindowSize is the fixed number of page controls shown at once.
const WindowSize = 5

// TotalPages derives the page count from the backend's total job count.
// Page 1 is always the curated best-matches page and always counts as holding
// up to pageSize items; the remaining jobs spill over into offset pages.
// A totalJobs of 0 (including "count not known yet") yields 1.
func TotalPages(totalJobs, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	remaining := totalJobs - pageSize
	if remaining <= 0 {
		return 1
	}
	return 1 + (remaining+pageSize-1)/pageSize
}

// BackendPageFor maps a requested client page to the backend's page index.
// It returns 0 for page 1, meaning "use the best-matches endpoint, no page
// parameter". For page >= 2 the backend index is requestedPage-1: the
// backend's own first page overlaps with the separately-sourced best-matches
// page and must be skipped to avoid duplicate items.
func BackendPageFor(requestedPage int) int {
	if requestedPage <= 1 {
		return 0
	}
	return requestedPage - 1
}

// VisiblePageWindow returns the page numbers to render as controls: a sliding
// window of windowSize pages kept centered on currentPage away from the
// boundaries. The result is ascending, duplicate-free, always contains
// currentPage, and has exactly min(windowSize, totalPages) entries.
func VisiblePageWindow(currentPage, totalPages, windowSize int) []int {
	var start, end int
	switch {
	case totalPages <= windowSize:
		start, end = 1, totalPages
	case currentPage <= 3:
		start, end = 1, windowSize
	case currentPage >= totalPages-2:
		start, end = totalPages-windowSize+1, totalPages
	default:
		start, end = currentPage-2, currentPage+2
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
