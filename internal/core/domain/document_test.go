package domain_test

import (
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillableDocument_StatusAndAmountDue(t *testing.T) {
	newDoc := func(total int64, payments ...int64) domain.BillableDocument {
		d := domain.BillableDocument{Total: decimal.NewFromInt(total)}
		for i, p := range payments {
			d.Payments = append(d.Payments, domain.Payment{
				PaymentID: string(rune('a' + i)),
				Amount:    decimal.NewFromInt(p),
			})
		}
		return d
	}

	t.Run("no payments is pending", func(t *testing.T) {
		d := newDoc(500)
		assert.Equal(t, domain.DocPending, d.Status())
		assert.True(t, decimal.NewFromInt(500).Equal(d.AmountDue()))
	})

	t.Run("partial payment", func(t *testing.T) {
		d := newDoc(500, 200)
		assert.Equal(t, domain.DocPartial, d.Status())
		assert.True(t, decimal.NewFromInt(300).Equal(d.AmountDue()))
	})

	t.Run("multiple payments reaching total", func(t *testing.T) {
		d := newDoc(500, 200, 300)
		assert.Equal(t, domain.DocPaid, d.Status())
		assert.True(t, d.AmountDue().IsZero())
	})

	t.Run("amount due never negative", func(t *testing.T) {
		d := newDoc(500, 600)
		assert.Equal(t, domain.DocPaid, d.Status())
		assert.True(t, d.AmountDue().IsZero())
	})
}

func TestAgingBucketFor(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    domain.AgingBucket
	}{
		{"due in the future", asOf.AddDate(0, 0, 10), domain.AgingCurrent},
		{"due today", asOf, domain.AgingCurrent},
		{"one day overdue", asOf.AddDate(0, 0, -1), domain.Aging1To30},
		{"thirty days overdue", asOf.AddDate(0, 0, -30), domain.Aging1To30},
		{"thirty-one days overdue", asOf.AddDate(0, 0, -31), domain.Aging31To60},
		{"sixty days overdue", asOf.AddDate(0, 0, -60), domain.Aging31To60},
		{"ninety days overdue", asOf.AddDate(0, 0, -90), domain.Aging61To90},
		{"ninety-one days overdue", asOf.AddDate(0, 0, -91), domain.AgingOver90},
		{"a year overdue", asOf.AddDate(-1, 0, 0), domain.AgingOver90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AgingBucketFor(tt.dueDate, asOf))
		})
	}
}
