package table

import (
	"slices"
	"sync"

	"aegis_admin/internal/domain"
)

type sortKey struct {
	col Column
	dir Direction
}

// View sorts a fixed record set at most once per column and direction.
type View struct {
	records []domain.PaymentRecord
	size    int

	mu     sync.Mutex
	sorted map[sortKey][]domain.PaymentRecord
}

func NewView(records []domain.PaymentRecord, size int) *View {
	if size <= 0 {
		size = PageSize
	}
	return &View{
		records: records,
		size:    size,
		sorted:  make(map[sortKey][]domain.PaymentRecord),
	}
}

// Sorted returns a copy of the cached order for col and dir.
func (v *View) Sorted(col Column, dir Direction) []domain.PaymentRecord {
	return slices.Clone(v.sortedShared(col, dir))
}

func (v *View) sortedShared(col Column, dir Direction) []domain.PaymentRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	k := sortKey{col, dir}
	if s, ok := v.sorted[k]; ok {
		return s
	}
	s := Sort(v.records, col, dir)
	v.sorted[k] = s
	return s
}

func (v *View) Page(col Column, dir Direction, page int) Page {
	return Paginate(v.sortedShared(col, dir), page, v.size)
}

func (v *View) PageCount() int {
	return PageCount(len(v.records), v.size)
}

// State is what the admin screen remembers between taps.
type State struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
	Page      int       `json:"page"`
}

func DefaultState() State {
	return State{Column: ColCustomerName, Direction: Asc, Page: 1}
}

// Toggle handles a tap on a column header. The same column flips direction,
// another column starts ascending. The page goes back to 1 either way.
func (s State) Toggle(col Column) State {
	if s.Column == col {
		s.Direction = s.Direction.Flip()
	} else {
		s.Column = col
		s.Direction = Asc
	}
	s.Page = 1
	return s
}

func (s State) Goto(page, count int) State {
	s.Page = ClampPage(page, count)
	return s
}

// Browser is a View plus one shared State, safe for concurrent use.
type Browser struct {
	view *View

	mu    sync.Mutex
	state State
}

func NewBrowser(v *View) *Browser {
	return &Browser{view: v, state: DefaultState()}
}

func (b *Browser) Current() (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.render()
}

func (b *Browser) Toggle(col Column) (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Toggle(col)
	return b.render()
}

func (b *Browser) Goto(page int) (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Goto(page, b.view.PageCount())
	return b.render()
}

func (b *Browser) Next() (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Goto(b.state.Page+1, b.view.PageCount())
	return b.render()
}

func (b *Browser) Prev() (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Goto(b.state.Page-1, b.view.PageCount())
	return b.render()
}

func (b *Browser) Reset() (State, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = DefaultState()
	return b.render()
}

func (b *Browser) render() (State, Page) {
	st := b.state
	return st, b.view.Page(st.Column, st.Direction, st.Page)
}
