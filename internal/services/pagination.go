package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Page is one page of a list result.
type Page[T any] struct {
	Items  []T
	Total  int64
	Number int
	Size   int
}

func (p *Page[T]) HasNext() bool {
	return int64(p.Number)*int64(p.Size) < p.Total
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// paginate counts query, then loads page number (1-based) ordered by order
// with the given associations preloaded. Page 1 of an empty result is valid;
// any other page past the end is not.
func paginate[T any](ctx context.Context, query *gorm.DB, order string, number, size int, preloads ...string) (*Page[T], error) {
	if number < 1 || size < 1 {
		return nil, ErrInvalidPage
	}

	var total int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	offset := (number - 1) * size
	if number > 1 && int64(offset) >= total {
		return nil, ErrInvalidPage
	}

	items := make([]T, 0, size)
	tx := query.Session(&gorm.Session{}).WithContext(ctx)
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	err := tx.Order(order).
		Offset(offset).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	return &Page[T]{Items: items, Total: total, Number: number, Size: size}, nil
}
