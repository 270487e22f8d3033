package common

const (
	// MaxLimit верхняя граница размера страницы.
	MaxLimit = 100
	// MaxPage ограничивает номер страницы, чтобы смещение не переполнялось.
	MaxPage = 1_000_000
)

// ListResult страница результатов со общим количеством.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page нормализованные параметры пагинации.
type Page struct {
	Page  int
	Limit int
}

// Offset смещение первой строки страницы.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPage приводит некорректные значения к значениям по умолчанию вместо ошибки.
func NewPage(page, limit, defaultLimit int) Page {
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Result собирает ListResult для страницы.
func Result[T any](items []T, total int, p Page) ListResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return ListResult[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
