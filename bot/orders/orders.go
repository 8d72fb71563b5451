// Package orders finalizes sales: id generation, the order-feed POST and the
// optional Postgres sales journal.
package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"
)

// Payment method and status values the order feed expects.
const (
	PaymentContraEntrega = "Contra entrega"
	PaymentTransferencia = "Transferencia"
	PaymentQR            = "QR"

	StatusPendiente = "PENDIENTE"
	StatusPagado    = "PAGADO"
)

// Sale is the finalized order record sent downstream.
type Sale struct {
	SaleID   string    `json:"numero_venta" db:"sale_id"`
	Date     time.Time `json:"fecha" db:"created_at"`
	Customer string    `json:"cliente" db:"customer"`
	Phone    string    `json:"telefono" db:"phone"`
	Product  string    `json:"producto" db:"product"`
	Color    string    `json:"color" db:"color"`
	Size     string    `json:"talla" db:"size"`
	Email    string    `json:"email" db:"email"`
	Price    string    `json:"precio" db:"price"`
	Payment  string    `json:"metodo_pago" db:"payment"`
	Status   string    `json:"estado" db:"status"`

	City    string `json:"ciudad" db:"city"`
	Region  string `json:"departamento" db:"region"`
	Address string `json:"direccion" db:"address"`
}

// Recorder forwards a finalized sale to a downstream system.
type Recorder interface {
	Record(ctx context.Context, sale Sale) error
}

const saleIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewSaleID generates a sale identifier of the form
// VEN-<unix timestamp>-<4 random upper-alphanumeric characters>.
func NewSaleID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback keyed off the clock, still unique enough
		nano := time.Now().UnixNano()
		for i := range buf {
			buf[i] = byte(nano >> (8 * i))
		}
	}
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = saleIDAlphabet[int(b)%len(saleIDAlphabet)]
	}
	return fmt.Sprintf("VEN-%d-%s", time.Now().Unix(), suffix)
}
