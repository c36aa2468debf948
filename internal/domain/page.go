package domain

// Page is the pagination envelope returned by the backend (Spring Data page).
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Empty reports whether the page carries no content.
func (p Page[T]) Empty() bool {
	return len(p.Content) == 0
}

// Paginate slices items into the page at index number with the given size.
// Out-of-range pages yield an empty Content with the totals still filled in.
func Paginate[T any](items []T, number, size int) Page[T] {
	total := len(items)
	page := Page[T]{
		Content:       []T{},
		Number:        number,
		Size:          size,
		TotalElements: int64(total),
	}
	if size <= 0 {
		return page
	}
	page.TotalPages = total / size
	if total%size != 0 {
		page.TotalPages++
	}
	if number < 0 || number >= page.TotalPages {
		return page
	}
	start := number * size
	end := start + size
	if end > total {
		end = total
	}
	page.Content = append(page.Content, items[start:end]...)
	return page
}

// MapPage converts the content of a page, keeping the envelope.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Content:       make([]U, 0, len(page.Content)),
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
	for _, item := range page.Content {
		out.Content = append(out.Content, fn(item))
	}
	return out
}
