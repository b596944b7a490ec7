package table

import (
	"slices"

	"aegis_admin/internal/domain"
)

const PageSize = 10

type Page struct {
	Items     []domain.PaymentRecord
	Page      int
	PageCount int
	Total     int
	HasPrev   bool
	HasNext   bool
}

func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage keeps page inside [1, count]. With no pages it returns 1.
func ClampPage(page, count int) int {
	if count < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > count {
		return count
	}
	return page
}

func Paginate(records []domain.PaymentRecord, page, size int) Page {
	total := len(records)
	count := PageCount(total, size)
	page = ClampPage(page, count)

	p := Page{
		Items:     []domain.PaymentRecord{},
		Page:      page,
		PageCount: count,
		Total:     total,
	}
	if count == 0 {
		return p
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	// copied so callers cannot write through to the sorted cache
	p.Items = slices.Clone(records[start:end])
	p.HasPrev = page > 1
	p.HasNext = page < count
	return p
}
