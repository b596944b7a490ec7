package usecase

import (
	"context"
	"fmt"
	"io"

	"aegis_admin/internal/domain"
	"aegis_admin/internal/export"
	"aegis_admin/internal/table"
)

type PaymentStore interface {
	ListAll(ctx context.Context) ([]domain.PaymentRecord, error)
	GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error)
}

// PaymentsUsecase serves the payment history. The collection is read from
// the store once and never changes afterwards.
type PaymentsUsecase struct {
	store   PaymentStore
	view    *table.View
	browser *table.Browser
}

func NewPaymentsUsecase(ctx context.Context, store PaymentStore) (*PaymentsUsecase, error) {
	records, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	view := table.NewView(records, table.PageSize)
	return &PaymentsUsecase{
		store:   store,
		view:    view,
		browser: table.NewBrowser(view),
	}, nil
}

func (u *PaymentsUsecase) Page(col table.Column, dir table.Direction, page int) table.Page {
	return u.view.Page(col, dir, page)
}

func (u *PaymentsUsecase) Get(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	return u.store.GetByID(ctx, id)
}

// Browser is the shared admin-table state driven by header and pager taps.
func (u *PaymentsUsecase) Browser() *table.Browser {
	return u.browser
}

func (u *PaymentsUsecase) Export(w io.Writer, col table.Column, dir table.Direction) error {
	return export.WriteXLSX(w, u.view.Sorted(col, dir))
}
