package txn

import (
	"errors"

	"github.com/corevm-labs/uvm/common"
)

// ErrNotEnoughBalance surfaces spec.md §4.6's NotEnoughBalance panic reason:
// a runtime balance subtraction would underflow.
var ErrNotEnoughBalance = errors.New("txn: not enough balance")

// InitialBalances holds a validated transaction's free-asset balances at
// t=0, split into non-retryable (per asset id) and an optional retryable
// amount, per spec.md §3. Used by UpdateOutputs to reset Change outputs on
// revert and to compute the base-asset refund.
type InitialBalances struct {
	NonRetryable map[common.AssetId]Word
	Retryable    *Word
}

// RuntimeBalances is the interpreter's live per-asset balance table
// (spec.md §4.6). It is a plain map rather than a richer type: the only
// operations the core needs are get, additive credit and checked debit.
type RuntimeBalances map[common.AssetId]Word

// Get returns the balance for asset, or zero if untracked.
func (b RuntimeBalances) Get(asset common.AssetId) Word { return b[asset] }

// Add credits asset by value.
func (b RuntimeBalances) Add(asset common.AssetId, value Word) {
	b[asset] += value
}

// Sub debits asset by value, failing closed with ErrNotEnoughBalance on
// underflow rather than wrapping (spec.md §4.6: "base_asset_balance_sub
// subtracts with underflow check").
func (b RuntimeBalances) Sub(asset common.AssetId, value Word) error {
	have := b[asset]
	if have < value {
		return ErrNotEnoughBalance
	}
	b[asset] = have - value
	return nil
}
