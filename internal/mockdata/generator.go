// Package mockdata builds the fixed payment collection shown in the admin
// payment history.
package mockdata

import (
	"fmt"
	"math/rand"
	"time"

	"aegis_admin/internal/domain"

	"github.com/google/uuid"
)

const DefaultCount = 30

var names = []string{
	"Nguyen Van A", "Tran Thi B", "Le Quang C", "Pham Minh D", "Hoang Anh E",
	"Bui Thi F", "Doan Van G", "Vu Thi H", "Phan Quoc I", "Dang Thi J",
	"Ngo Van K", "Dinh Thi L", "Trinh Van M", "Cao Thi N", "Chu Van O",
	"Mai Thi P", "Duong Van Q", "Kieu Thi R", "Ta Van S", "Ton Nu T",
	"Ly Van U", "Luu Thi V", "Phung Van W", "Quach Thi X", "Trieu Van Y",
	"Vuong Thi Z", "Phung Van AA", "Nguyen Thi BB", "Tran Van CC", "Le Thi DD",
}

type Generator struct {
	rnd *rand.Rand
	now func() time.Time
	ids func() string
}

type Option func(*Generator)

func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithIDs(ids func() string) Option {
	return func(g *Generator) { g.ids = ids }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
		ids: func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns n records, none when n <= 0. Each call produces a fresh
// collection; callers generate once at startup and never mutate the result.
func (g *Generator) Generate(n int) []domain.PaymentRecord {
	if n < 0 {
		n = 0
	}
	now := g.now()
	out := make([]domain.PaymentRecord, 0, n)

	for i := 0; i < n; i++ {
		plan := domain.Plans[g.rnd.Intn(len(domain.Plans))]
		status := g.status()
		createdAt := g.dateInLastSixMonths(now)
		updatedAt := createdAt.Add(g.upTo(30 * 24 * time.Hour))

		var paymentDate *time.Time
		if status == domain.StatusPaid {
			pd := createdAt.Add(g.upTo(5 * 24 * time.Hour))
			paymentDate = &pd
		}

		id := g.ids()
		out = append(out, domain.PaymentRecord{
			ID:                 id,
			SubscriptionID:     g.ids(),
			ParentID:           g.ids(),
			Amount:             plan.Amount,
			Currency:           domain.CurrencyVND,
			PaymentMethod:      domain.MethodPayOS,
			Status:             status,
			PaymentDate:        paymentDate,
			CreatedAt:          createdAt,
			UpdatedAt:          updatedAt,
			PayOSOrderCode:     fmt.Sprintf("ORD-2024-%06d", 1000+i),
			PayOSTransactionID: fmt.Sprintf("TXN-2024-%06d", 1000+i),
			QRCodeURL:          "https://fake.qr/" + id,
			CheckoutURL:        "https://fake.checkout/" + id,
			CustomerName:       names[i%len(names)],
			CustomerEmail:      fmt.Sprintf("user%d@example.com", i%len(names)+1),
			PlanName:           plan.Name,
		})
	}

	return out
}

func (g *Generator) status() domain.PaymentStatus {
	r := g.rnd.Float64()
	switch {
	case r < 0.7:
		return domain.StatusPaid
	case r < 0.9:
		return domain.StatusPending
	case g.rnd.Float64() < 0.5:
		return domain.StatusCancelled
	default:
		return domain.StatusExpired
	}
}

func (g *Generator) dateInLastSixMonths(now time.Time) time.Time {
	past := now.AddDate(0, -6, 0)
	return past.Add(g.upTo(now.Sub(past)))
}

func (g *Generator) upTo(d time.Duration) time.Duration {
	return time.Duration(g.rnd.Float64() * float64(d))
}
