package catalog

// Gap marks skipped page numbers in the output of PageNumbers.
const Gap = 0

const maxVisiblePages = 5

// PageNumbers returns the page buttons a pagination control shows: every
// page when there are few, otherwise the first and last page plus the
// neighbours of current, with Gap where pages are left out.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return []int{}
	}

	if total <= maxVisiblePages {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	pages := []int{1}

	start := max(2, current-1)
	end := min(total-1, current+1)

	if start > 2 {
		pages = append(pages, Gap)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < total-1 {
		pages = append(pages, Gap)
	}

	return append(pages, total)
}
