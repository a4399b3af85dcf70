// uvmrun loads a consensus-parameter TOML file and a hex-encoded script,
// executes it against a fresh in-memory layered store, and prints the
// resulting receipts log. It plays the role the teacher's cmd/cvm plays for
// its bytecode interpreter, adapted to this module's register machine: the
// opcode decoder and ALU are out of scope for the core, so this CLI is
// also the reference InstructionStream host, dispatching only a halt and
// two of the primitives the interpreter itself exposes (keccak256, sha256).
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/corevm-labs/uvm/asm"
	"github.com/corevm-labs/uvm/common"
	"github.com/corevm-labs/uvm/params"
	"github.com/corevm-labs/uvm/storage"
	"github.com/corevm-labs/uvm/txn"
	"github.com/corevm-labs/uvm/vm"
	"github.com/corevm-labs/uvm/xlog"
)

// tomlSettings matches the teacher-pack's convention (grounded on
// ProbeChain-go-probe's cmd/gprobe/config.go) of using Go struct field
// names verbatim as TOML keys, rather than naoina/toml's default
// case-folding.
var tomlSettings = toml.Config{
	NormFieldName: func(_ reflect.Type, key string) string { return key },
	FieldToKey:    func(_ reflect.Type, field string) string { return field },
}

var (
	ParamsFlag = cli.StringFlag{
		Name:  "params",
		Usage: "consensus parameters TOML file",
	}
	ScriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "hex-encoded script bytecode and demo instruction stream",
	}
	GasLimitFlag = cli.Uint64Flag{
		Name:  "gas-limit",
		Usage: "gas funded to the script context",
		Value: 1_000_000,
	}
)

var runCommand = cli.Command{
	Name:   "run",
	Usage:  "execute a script transaction and print its receipts",
	Action: run,
	Flags:  []cli.Flag{ParamsFlag, ScriptFlag, GasLimitFlag},
}

func main() {
	app := cli.NewApp()
	app.Name = "uvmrun"
	app.Usage = "register-VM interpreter core demo runner"
	app.Commands = []cli.Command{runCommand}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log := xlog.Root().New("cmd", "uvmrun")

	consensus := params.DefaultConsensusParameters()
	if p := ctx.String(ParamsFlag.Name); p != "" {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("opening params file: %w", err)
		}
		defer f.Close()
		if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&consensus); err != nil {
			return fmt.Errorf("parsing params file: %w", err)
		}
	}

	scriptPath := ctx.String(ScriptFlag.Name)
	if scriptPath == "" {
		return fmt.Errorf("uvmrun run: -script is required")
	}
	rawHex, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("reading script file: %w", err)
	}
	code, err := hex.DecodeString(trimHex(string(rawHex)))
	if err != nil {
		return fmt.Errorf("decoding script hex: %w", err)
	}

	// A Script context can only write within the transaction memory region
	// the consensus parameters reserve (spec.md §3: stack and heap ownership
	// never apply outside a call frame). Fund a generous default so the demo
	// opcodes below have somewhere to write their digests, unless the loaded
	// params file already commits to a specific tx_offset.
	const demoTxOffset = 8192
	if ctx.String(ParamsFlag.Name) == "" {
		consensus.TxOffset = demoTxOffset
	}

	store := storage.NewMemory()
	layered := storage.NewLayeredStorage(store, storage.Metadata{BlockHeight: 0})

	outputs := []txn.Output{{Kind: txn.OutputKindChange, AssetID: common.BaseAssetId}}
	tx := txn.NewScript(common.Bytes32{}, code, outputs)
	if err := tx.ValidateOutputs(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	in := vm.New(tx, layered, consensus, txn.InitialBalances{}, vm.Context{
		Kind:     vm.ContextScript,
		GasLimit: ctx.Uint64(GasLimitFlag.Name),
	})

	stream := newDemoStream(code)
	if err := drive(in, stream, log); err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}

	printReceipts(in)
	layered.CommitPending()
	return nil
}

func trimHex(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return s
}

// Demo opcode set. Real opcode dispatch is out of this module's scope; this
// is just enough decoding for the CLI to exercise the interpreter's
// exported primitives end to end.
const (
	opHalt = iota
	opKeccak256
	opSha256
)

type demoStream struct {
	code []byte
}

func newDemoStream(code []byte) *demoStream { return &demoStream{code: code} }

// Fetch decodes one 4-byte instruction: opcode, two register-like byte
// operands (source address and dest address, each counted in 32-byte
// units) and an immediate length byte. This is a toy encoding private to this CLI, not a
// wire format the core module defines.
func (d *demoStream) Fetch(pc uint64) (asm.Instruction, error) {
	if int(pc)+4 > len(d.code) {
		return asm.Instruction{Opcode: opHalt}, nil
	}
	b := d.code[pc : pc+4]
	return asm.Instruction{
		Opcode:    b[0],
		Ra:        b[1],
		Rb:        b[2],
		Immediate: uint32(b[3]),
	}, nil
}

func drive(in *vm.Interpreter, stream asm.InstructionStream, log xlog.Logger) error {
	const maxSteps = 1 << 16
	for step := 0; step < maxSteps; step++ {
		pc := in.Registers().Get(vm.PC)
		instr, err := stream.Fetch(pc)
		if err != nil {
			return in.HandleFault(err)
		}

		switch instr.Opcode {
		case opHalt:
			return in.Finalize(false, in.Registers().Get(vm.RegContextGas))
		case opKeccak256:
			srcAddr := vm.Word(instr.Ra) * 32
			dstAddr := vm.Word(instr.Rb) * 32
			length := vm.Word(instr.Immediate)
			log.Debug("dispatch keccak256", "pc", pc, "src", srcAddr, "dst", dstAddr, "len", length)
			// Keccak256 advances PC itself on success.
			if err := in.Keccak256(dstAddr, srcAddr, length); err != nil {
				return in.HandleFault(err)
			}
		case opSha256:
			srcAddr := vm.Word(instr.Ra) * 32
			dstAddr := vm.Word(instr.Rb) * 32
			length := vm.Word(instr.Immediate)
			log.Debug("dispatch sha256", "pc", pc, "src", srcAddr, "dst", dstAddr, "len", length)
			// Sha256 advances PC itself on success.
			if err := in.Sha256(dstAddr, srcAddr, length); err != nil {
				return in.HandleFault(err)
			}
		default:
			return fmt.Errorf("unsupported demo opcode %d at pc %d", instr.Opcode, pc)
		}
	}
	return in.Finalize(true, 0)
}

func printReceipts(in *vm.Interpreter) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"kind", "contract", "panic reason", "data"})
	for _, r := range in.ReceiptsLog().Receipts() {
		table.Append([]string{
			receiptKindString(r.Kind),
			r.ContractID.Hex(),
			r.PanicReason.String(),
			hex.EncodeToString(r.Data),
		})
	}
	table.Render()
	root := in.ReceiptsLog().Root()
	fmt.Printf("receipts root: 0x%s\n", hex.EncodeToString(root[:]))
}

func receiptKindString(k vm.ReceiptKind) string {
	switch k {
	case vm.ReceiptKindCall:
		return "call"
	case vm.ReceiptKindReturn:
		return "return"
	case vm.ReceiptKindLog:
		return "log"
	case vm.ReceiptKindPanic:
		return "panic"
	default:
		return "unknown"
	}
}
