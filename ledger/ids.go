package ledger

import (
	"github.com/google/uuid"
)

// Id prefixes per generated collection. Products are keyed by SKU instead.
const (
	PrefixPurchase   = "p_"
	PrefixSale       = "s_"
	PrefixAdjustment = "adj_"
	PrefixCustomer   = "c_"
)

// IDFunc generates a new record id for the given prefix.
type IDFunc func(prefix string) string

// NewID returns prefix followed by a random UUID.
func NewID(prefix string) string {
	return prefix + uuid.NewString()
}
