package accountview

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gabapcia/ledgerview/internal/ledger"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	carol = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	dave  = common.HexToAddress("0x00000000000000000000000000000000000000d0")
)

type pair struct{ owner, spender common.Address }

type queryCall struct {
	kind ledger.Kind
	from uint64
}

// fakeLedger is an in-memory chain. Emit delivers a log to the current
// handlers one at a time, like the node adapter does.
type fakeLedger struct {
	mu sync.Mutex

	height  uint64
	network string
	logs    []ledger.RawLog

	heightErr    error
	queryErr     error
	subscribeErr error
	allowances   map[pair]*big.Int
	allowanceErr map[pair]error

	gates   map[common.Address]chan struct{}
	started chan common.Address

	handlers      map[ledger.Kind][]ledger.Handler
	queries       []queryCall
	timestampReqs map[uint64]int
}

var _ ledger.Ledger = (*fakeLedger)(nil)

func newFakeLedger(network string, height uint64, logs ...ledger.RawLog) *fakeLedger {
	return &fakeLedger{
		height:        height,
		network:       network,
		logs:          logs,
		allowances:    make(map[pair]*big.Int),
		allowanceErr:  make(map[pair]error),
		gates:         make(map[common.Address]chan struct{}),
		started:       make(chan common.Address, 16),
		handlers:      make(map[ledger.Kind][]ledger.Handler),
		timestampReqs: make(map[uint64]int),
	}
}

// block makes queries naming addr wait until release is called.
func (f *fakeLedger) block(addr common.Address) (release func()) {
	gate := make(chan struct{})

	f.mu.Lock()
	f.gates[addr] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeLedger) CurrentHeight(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height, f.heightErr
}

func (f *fakeLedger) NetworkID(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.network, nil
}

func (f *fakeLedger) QueryEvents(_ context.Context, kind ledger.Kind, filter ledger.Filter, from uint64, to *uint64) ([]ledger.RawLog, error) {
	f.mu.Lock()
	f.queries = append(f.queries, queryCall{kind: kind, from: from})
	if f.queryErr != nil {
		defer f.mu.Unlock()
		return nil, f.queryErr
	}
	var gate chan struct{}
	var named common.Address
	for _, addr := range []*common.Address{filter.First, filter.Second} {
		if addr == nil {
			continue
		}
		if g, ok := f.gates[*addr]; ok {
			gate, named = g, *addr
		}
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case f.started <- named:
		default:
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []ledger.RawLog
	for _, raw := range f.logs {
		if raw.EventName != string(kind) || raw.BlockNumber < from || (to != nil && raw.BlockNumber > *to) {
			continue
		}
		if filter.First != nil && raw.Args[0] != *filter.First {
			continue
		}
		if filter.Second != nil && raw.Args[1] != *filter.Second {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

func (f *fakeLedger) Subscribe(kind ledger.Kind, h ledger.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribeErr != nil && kind == ledger.KindApproval {
		return f.subscribeErr
	}
	f.handlers[kind] = append(f.handlers[kind], h)
	return nil
}

func (f *fakeLedger) Unsubscribe(kind ledger.Kind, h ledger.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	hs := f.handlers[kind]
	for i, existing := range hs {
		if existing == h {
			f.handlers[kind] = append(hs[:i:i], hs[i+1:]...)
			return nil
		}
	}
	return errors.New("handler not registered")
}

func (f *fakeLedger) BlockTimestamp(_ context.Context, block uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.timestampReqs[block]++
	return 1_000 + int64(block)*10, nil
}

func (f *fakeLedger) Allowance(_ context.Context, owner, spender common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pair{owner, spender}
	if err, ok := f.allowanceErr[key]; ok {
		return nil, err
	}
	if v, ok := f.allowances[key]; ok {
		return v, nil
	}
	return nil, errors.New("no allowance configured")
}

// mine appends logs to the chain without notifying anyone.
func (f *fakeLedger) mine(logs ...ledger.RawLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, logs...)
}

// emit delivers raw to every handler of its kind.
func (f *fakeLedger) emit(raw ledger.RawLog) {
	f.mu.Lock()
	hs := append([]ledger.Handler(nil), f.handlers[ledger.Kind(raw.EventName)]...)
	f.mu.Unlock()

	for _, h := range hs {
		h.HandleLog(context.Background(), raw)
	}
}

func (f *fakeLedger) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int
	for _, hs := range f.handlers {
		n += len(hs)
	}
	return n
}

func (f *fakeLedger) allHandlers() []ledger.Handler {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []ledger.Handler
	for _, hs := range f.handlers {
		out = append(out, hs...)
	}
	return out
}

func (f *fakeLedger) queryCalls() []queryCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queryCall(nil), f.queries...)
}

func hashOf(block uint64, logIndex uint) common.Hash {
	return common.BytesToHash([]byte{byte(block >> 8), byte(block), byte(logIndex)})
}

func rawTransfer(block uint64, logIndex uint, from, to common.Address, amount int64) ledger.RawLog {
	return ledger.RawLog{
		EventName:   string(ledger.KindTransfer),
		Args:        []any{from, to, big.NewInt(amount)},
		BlockNumber: block,
		LogIndex:    logIndex,
		TxHash:      hashOf(block, logIndex),
	}
}

func rawApproval(block uint64, logIndex uint, owner, spender common.Address, amount int64) ledger.RawLog {
	return ledger.RawLog{
		EventName:   string(ledger.KindApproval),
		Args:        []any{owner, spender, big.NewInt(amount)},
		BlockNumber: block,
		LogIndex:    logIndex,
		TxHash:      hashOf(block, logIndex),
	}
}
