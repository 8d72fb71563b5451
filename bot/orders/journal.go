package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pasofino/ventabot/core/logger"
)

// JournalRecorder wraps another Recorder and additionally appends every sale
// to a local Postgres journal. The journal write is best effort: a failed
// INSERT is logged and does not fail the turn as long as the inner Recorder
// succeeded.
type JournalRecorder struct {
	inner Recorder
	db    *sqlx.DB
}

// NewJournalRecorder layers a Postgres journal over inner.
func NewJournalRecorder(inner Recorder, db *sqlx.DB) *JournalRecorder {
	return &JournalRecorder{inner: inner, db: db}
}

const insertSale = `
INSERT INTO sales (sale_id, created_at, customer, phone, product, color, size,
                   email, price, payment, status, city, region, address)
VALUES (:sale_id, :created_at, :customer, :phone, :product, :color, :size,
        :email, :price, :payment, :status, :city, :region, :address)
ON CONFLICT (sale_id) DO NOTHING`

// Record forwards to the inner Recorder and journals the sale locally.
func (r *JournalRecorder) Record(ctx context.Context, sale Sale) error {
	innerErr := r.inner.Record(ctx, sale)

	start := time.Now()
	if _, err := r.db.NamedExecContext(ctx, insertSale, sale); err != nil {
		logger.SVCOrders.LogAttrs(ctx, slog.LevelError, "order.journal.insert",
			slog.String("status", "error"),
			slog.String("sale_id", sale.SaleID),
			slog.String("err", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	} else {
		logger.SVCOrders.LogAttrs(ctx, slog.LevelDebug, "order.journal.insert",
			slog.String("status", "ok"),
			slog.String("sale_id", sale.SaleID),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	if innerErr != nil {
		return fmt.Errorf("orders: journal inner record: %w", innerErr)
	}
	return nil
}
