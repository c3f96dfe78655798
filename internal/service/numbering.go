package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/repository"
)

// Number prefixes for generated document numbers
const (
	PrefixSaleOrder       = "SO"
	PrefixPurchaseOrder   = "PO"
	PrefixCustomerInvoice = "INV"
	PrefixVendorBill      = "BILL"
)

// NumberGenerator produces unique human-readable document numbers.
type NumberGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

type sequenceNumberGenerator struct {
	seqRepo repository.SequenceRepository
	now     func() time.Time
}

// NewNumberGenerator numbers documents as PREFIX-YYYYMMDD-NNNNN using a
// persistent per-day sequence. Called inside a transaction, a rollback
// releases the number.
func NewNumberGenerator(seqRepo repository.SequenceRepository) NumberGenerator {
	return &sequenceNumberGenerator{seqRepo: seqRepo, now: time.Now}
}

func (g *sequenceNumberGenerator) Next(ctx context.Context, prefix string) (string, error) {
	key := prefix + "-" + g.now().Format("20060102") + "-"
	n, err := g.seqRepo.Next(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s%05d", key, n), nil
}
