// Package paginate splits ordered sequences into fixed-size pages for
// display.
package paginate

// Chunk splits items into consecutive pages of at most size elements. The
// last page holds the remainder. A non-positive size yields a single page
// with everything. Pages alias the input slice; they are views, not copies.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}
