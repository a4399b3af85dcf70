package vm

import (
	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/merkle"
)

// ReceiptKind tags the structured events opcodes append to the receipts
// log. Call/Return/Log receipts are placeholders for the (out of scope)
// call-flow dispatcher to populate; Panic is this module's own.
type ReceiptKind uint8

const (
	ReceiptKindCall ReceiptKind = iota
	ReceiptKindReturn
	ReceiptKindLog
	ReceiptKindPanic
)

// Receipt is a single structured event, represented as a tagged struct
// rather than a variant hierarchy (spec.md §9). Only the fields relevant to
// Kind are meaningful.
type Receipt struct {
	Kind        ReceiptKind
	ContractID  common.ContractId
	PanicReason PanicReason
	Data        []byte
}

// ReceiptsCtx is the interpreter's append-only receipts log plus a cached
// Merkle root recomputed on every append (spec.md §3/§4.6). Recomputing
// from scratch is O(n log n) in the number of receipts; a production
// implementation could maintain the root incrementally, but must agree with
// this one.
type ReceiptsCtx struct {
	receipts []Receipt
	root     merkle.Bytes32
}

// NewReceiptsCtx returns an empty receipts log with the zero-leaf root.
func NewReceiptsCtx() *ReceiptsCtx {
	return &ReceiptsCtx{}
}

// Append adds r to the log and recomputes the cached root.
func (c *ReceiptsCtx) Append(r Receipt) {
	c.receipts = append(c.receipts, r)
	c.recomputeRoot()
}

// Receipts returns the log in append order.
func (c *ReceiptsCtx) Receipts() []Receipt { return c.receipts }

// Root returns the current cached Merkle root over the log.
func (c *ReceiptsCtx) Root() merkle.Bytes32 { return c.root }

func (c *ReceiptsCtx) recomputeRoot() {
	tree := merkle.NewTree()
	for _, r := range c.receipts {
		tree.Push(encodeReceipt(r))
	}
	c.root = tree.Root()
}

// encodeReceipt produces the leaf datum hashed into the receipts Merkle
// tree: stable and cheap, not a wire-format commitment (no real consumer of
// this module serializes receipts over the network).
func encodeReceipt(r Receipt) []byte {
	out := make([]byte, 0, 2+len(r.ContractID)+len(r.Data))
	out = append(out, byte(r.Kind), byte(r.PanicReason))
	out = append(out, r.ContractID[:]...)
	out = append(out, r.Data...)
	return out
}

// AppendReceipt pushes r into the receipts log and, when the active
// transaction is a Script, writes the recomputed root into both the
// script's in-memory ReceiptsRoot field and the transaction-memory region
// at tx_offset + receiptsRootOffset (spec.md §4.6).
func (in *Interpreter) AppendReceipt(r Receipt) error {
	in.receipts.Append(r)

	script, ok := in.tx.AsScriptMut()
	if !ok {
		return nil
	}
	root := in.receipts.Root()
	script.ReceiptsRoot = common.Bytes32(root)

	offset := in.consensus.TxOffset + receiptsRootOffset
	return in.memory.WriteUnchecked(offset, root[:])
}

// receiptsRootOffset is the fixed byte offset of the receipts-root field
// within the transaction memory region, reproducible by the (out of scope)
// serializer alongside tx_offset (spec.md §6).
const receiptsRootOffset = 32
