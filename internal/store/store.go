// Package store is the durable key/value layer underneath the record
// repository. Values are opaque strings; the repository owns their format.
package store

import "context"

// Record-set keys. The key space is closed: nothing outside this list is
// ever read or written.
const (
	KeyCompanyName    = "companyName"
	KeyCompanyAddress = "companyAddress"
	KeyCarrierID      = "carrierId"
	KeyUserEmail      = "userEmail"
	KeyInvoiceHistory = "invoiceHistory"
	KeyExpenses       = "expenses"
)

// Store is a synchronous key/value store. Get reports whether the key has
// ever been set. There are no transactions and no multi-key atomicity; the
// single-writer usage pattern makes that acceptable.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
