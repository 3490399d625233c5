// internal/chain/env.go
package chain

import (
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
)

// Env is everything an operation may ask of the execution environment.
// It is valid only for the duration of one call.
type Env interface {
	// Caller is the account that signed the call.
	Caller() models.AccountID

	// Now is a non-decreasing timestamp, used for identifiers and record times.
	Now() uint64

	// Attached is the value deposited with the call.
	Attached() models.Amount

	// Transfer pays amount to an account. It takes effect only if the call succeeds.
	Transfer(to models.AccountID, amount models.Amount) error

	// RandomBytes returns n bytes from the environment's randomness source.
	RandomBytes(n int) ([]byte, error)

	// Writes is the batch committed to the store when the call succeeds.
	Writes() *store.Batch
}
