// Package table sorts and paginates the admin payment history.
package table

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"aegis_admin/internal/domain"
)

type Column string

const (
	ColCustomerName Column = "customerName"
	ColAmount       Column = "amount"
	ColStatus       Column = "status"
	ColPlanName     Column = "planName"
	ColPaymentDate  Column = "paymentDate"
	ColOrderCode    Column = "orderCode"
)

var Columns = []Column{ColCustomerName, ColAmount, ColStatus, ColPlanName, ColPaymentDate, ColOrderCode}

func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Compare orders a and b by col, ascending. Absent payment dates sort as the
// zero instant.
func Compare(a, b domain.PaymentRecord, col Column) int {
	switch col {
	case ColPaymentDate:
		return compareTime(instant(a.PaymentDate), instant(b.PaymentDate))
	case ColAmount:
		return a.Amount.Cmp(b.Amount)
	case ColStatus:
		return compareInt(a.Status.Rank(), b.Status.Rank())
	case ColCustomerName:
		return strings.Compare(a.CustomerName, b.CustomerName)
	case ColPlanName:
		return strings.Compare(a.PlanName, b.PlanName)
	case ColOrderCode:
		return strings.Compare(a.PayOSOrderCode, b.PayOSOrderCode)
	}
	panic(fmt.Sprintf("table: compare on unknown column %q", col))
}

// Sort returns a sorted copy of records. Equal elements keep input order in
// both directions.
func Sort(records []domain.PaymentRecord, col Column, dir Direction) []domain.PaymentRecord {
	out := make([]domain.PaymentRecord, len(records))
	copy(out, records)

	sign := 1
	if dir == Desc {
		sign = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sign*Compare(out[i], out[j], col) < 0
	})
	return out
}

func instant(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
