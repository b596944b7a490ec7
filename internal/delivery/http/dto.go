package httpd

import (
	"time"

	"aegis_admin/internal/domain"
	"aegis_admin/internal/table"
)

type LoginReq struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
}

type PaymentItem struct {
	ID                 string     `json:"id"`
	SubscriptionID     string     `json:"subscriptionId"`
	ParentID           string     `json:"parentId"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	PaymentMethod      string     `json:"paymentMethod"`
	Status             string     `json:"status"`
	PaymentDate        *time.Time `json:"paymentDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	PayOSOrderCode     string     `json:"payosOrderCode"`
	PayOSTransactionID string     `json:"payosTransactionId"`
	QRCodeURL          string     `json:"qrCodeUrl"`
	CheckoutURL        string     `json:"checkoutUrl"`
	CustomerName       string     `json:"customerName"`
	CustomerEmail      string     `json:"customerEmail"`
	PlanName           string     `json:"planName"`
}

type PageResp struct {
	Sort      table.Column    `json:"sort"`
	Dir       table.Direction `json:"dir"`
	Page      int             `json:"page"`
	PageSize  int             `json:"pageSize"`
	PageCount int             `json:"pageCount"`
	Total     int             `json:"total"`
	HasPrev   bool            `json:"hasPrev"`
	HasNext   bool            `json:"hasNext"`
	Items     []PaymentItem   `json:"items"`
}

type ValidationResp struct {
	Step  int    `json:"step"`
	Title string `json:"title"`
	Error string `json:"error"`
}

func toPaymentItem(p domain.PaymentRecord) PaymentItem {
	return PaymentItem{
		ID:                 p.ID,
		SubscriptionID:     p.SubscriptionID,
		ParentID:           p.ParentID,
		Amount:             p.Amount.String(),
		Currency:           p.Currency,
		PaymentMethod:      p.PaymentMethod,
		Status:             string(p.Status),
		PaymentDate:        p.PaymentDate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		PayOSOrderCode:     p.PayOSOrderCode,
		PayOSTransactionID: p.PayOSTransactionID,
		QRCodeURL:          p.QRCodeURL,
		CheckoutURL:        p.CheckoutURL,
		CustomerName:       p.CustomerName,
		CustomerEmail:      p.CustomerEmail,
		PlanName:           p.PlanName,
	}
}

func toPageResp(st table.State, p table.Page) PageResp {
	items := make([]PaymentItem, 0, len(p.Items))
	for _, r := range p.Items {
		items = append(items, toPaymentItem(r))
	}
	return PageResp{
		Sort:      st.Column,
		Dir:       st.Direction,
		Page:      p.Page,
		PageSize:  table.PageSize,
		PageCount: p.PageCount,
		Total:     p.Total,
		HasPrev:   p.HasPrev,
		HasNext:   p.HasNext,
		Items:     items,
	}
}
