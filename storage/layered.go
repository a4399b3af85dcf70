package storage

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	lru "github.com/hashicorp/golang-lru"

	"github.com/corevm-labs/uvm/common"
)

// ContractRoot is a contract's (salt, root) pair, set once at creation.
type ContractRoot struct {
	Salt common.Salt
	Root common.Bytes32
}

// ContractData is the per-contract record a single storage layer holds:
// optional bytecode, an optional (salt, root) pair, and keyed optional
// balances/slots. A nil *Word or *common.Bytes32 value present in the map
// is a tombstone — it overrides a lower layer's value with "absent"
// (spec.md §3/§4.4). Grounded on fuel-vm's substorage.rs ContractData.
type ContractData struct {
	Bytecode *[]byte
	Root     *ContractRoot
	Balances map[common.AssetId]*Word
	Slots    map[common.Bytes32]*common.Bytes32
}

func newContractData() *ContractData {
	return &ContractData{
		Balances: make(map[common.AssetId]*Word),
		Slots:    make(map[common.Bytes32]*common.Bytes32),
	}
}

// Metadata carries the block-execution context a LayeredStorage reads
// through to for coinbase/block-height queries, per spec.md §4.4.
type Metadata struct {
	Coinbase    common.Address
	BlockHeight uint32
}

// LayeredStorage composes the pending/committed/state cascade. Reads
// consult pending, then committed, then state; writes always land in
// pending. Grounded on fuel-vm's src/substorage.rs SubStorage.
type LayeredStorage struct {
	mu sync.RWMutex

	state     InterpreterStorage
	committed map[common.ContractId]*ContractData
	pending   map[common.ContractId]*ContractData
	metadata  Metadata

	// bytecodeCache memoizes decoded backing-store bytecode lookups, the
	// same role golang-lru plays for trie/state object caches in the
	// teacher's codebase.
	bytecodeCache *lru.Cache
	// slotCache is a byte-level cache in front of the backing store's raw
	// storage-slot reads, mirroring the teacher's fastcache-backed trie
	// node cache.
	slotCache *fastcache.Cache
}

var _ InterpreterStorage = (*LayeredStorage)(nil)

// NewLayeredStorage constructs a LayeredStorage over the given backing
// store and block metadata.
func NewLayeredStorage(state InterpreterStorage, metadata Metadata) *LayeredStorage {
	cache, _ := lru.New(1024)
	return &LayeredStorage{
		state:         state,
		committed:     make(map[common.ContractId]*ContractData),
		pending:       make(map[common.ContractId]*ContractData),
		metadata:      metadata,
		bytecodeCache: cache,
		slotCache:     fastcache.New(8 * 1024 * 1024),
	}
}

func slotCacheKey(id common.ContractId, key common.Bytes32) []byte {
	out := make([]byte, 0, len(id)+len(key))
	out = append(out, id[:]...)
	out = append(out, key[:]...)
	return out
}

// ContractBytecode returns a contract's bytecode, cascading pending ->
// committed -> state. The backing-store lookup is memoized in
// bytecodeCache.
func (s *LayeredStorage) ContractBytecode(id common.ContractId) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.pending[id]; ok && c.Bytecode != nil {
		return *c.Bytecode, nil
	}
	if c, ok := s.committed[id]; ok && c.Bytecode != nil {
		return *c.Bytecode, nil
	}
	if cached, ok := s.bytecodeCache.Get(id); ok {
		if cached == nil {
			return nil, nil
		}
		return cached.([]byte), nil
	}
	code, err := s.state.ContractBytecode(id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		s.bytecodeCache.Add(id, nil)
		return nil, nil
	}
	s.bytecodeCache.Add(id, code)
	return code, nil
}

// SetContractBytecode writes bytecode into the pending layer.
func (s *LayeredStorage) SetContractBytecode(id common.ContractId, code []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	b := append([]byte(nil), code...)
	c.Bytecode = &b
	return nil
}

// ContractRoot returns a contract's (salt, root), cascading pending ->
// committed -> state.
func (s *LayeredStorage) ContractRoot(id common.ContractId) (common.Salt, common.Bytes32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.pending[id]; ok && c.Root != nil {
		return c.Root.Salt, c.Root.Root, true, nil
	}
	if c, ok := s.committed[id]; ok && c.Root != nil {
		return c.Root.Salt, c.Root.Root, true, nil
	}
	return s.state.ContractRoot(id)
}

// SetContractRoot writes a contract's (salt, root) into the pending layer.
func (s *LayeredStorage) SetContractRoot(id common.ContractId, salt common.Salt, root common.Bytes32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	c.Root = &ContractRoot{Salt: salt, Root: root}
	return nil
}

// StorageSlot reads a contract storage slot, respecting tombstones at each
// layer (spec.md §4.4).
func (s *LayeredStorage) StorageSlot(id common.ContractId, key common.Bytes32) (common.Bytes32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.pending[id]; ok {
		if v, present := c.Slots[key]; present {
			return derefBytes32(v)
		}
	}
	if c, ok := s.committed[id]; ok {
		if v, present := c.Slots[key]; present {
			return derefBytes32(v)
		}
	}

	ck := slotCacheKey(id, key)
	if cached, ok := s.slotCache.HasGet(nil, ck); ok {
		if len(cached) == 0 {
			return common.Bytes32{}, false, nil
		}
		return common.BytesToHash32(cached), true, nil
	}
	v, ok, err := s.state.StorageSlot(id, key)
	if err != nil {
		return common.Bytes32{}, false, err
	}
	if ok {
		s.slotCache.Set(ck, v[:])
	} else {
		s.slotCache.Set(ck, nil)
	}
	return v, ok, nil
}

func derefBytes32(v *common.Bytes32) (common.Bytes32, bool, error) {
	if v == nil {
		return common.Bytes32{}, false, nil
	}
	return *v, true, nil
}

// SetStorageSlot writes a storage slot into the pending layer.
func (s *LayeredStorage) SetStorageSlot(id common.ContractId, key, value common.Bytes32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	v := value
	c.Slots[key] = &v
	return nil
}

// RemoveStorageSlot tombstones a storage slot in the pending layer:
// subsequent reads (through pending/committed) see "absent" regardless of
// what the backing store holds.
func (s *LayeredStorage) RemoveStorageSlot(id common.ContractId, key common.Bytes32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	c.Slots[key] = nil
	return nil
}

// AssetBalance reads a per-asset balance, respecting tombstones.
func (s *LayeredStorage) AssetBalance(id common.ContractId, asset common.AssetId) (Word, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.pending[id]; ok {
		if v, present := c.Balances[asset]; present {
			return derefWord(v)
		}
	}
	if c, ok := s.committed[id]; ok {
		if v, present := c.Balances[asset]; present {
			return derefWord(v)
		}
	}
	return s.state.AssetBalance(id, asset)
}

func derefWord(v *Word) (Word, bool, error) {
	if v == nil {
		return 0, false, nil
	}
	return *v, true, nil
}

// SetAssetBalance writes a per-asset balance into the pending layer.
func (s *LayeredStorage) SetAssetBalance(id common.ContractId, asset common.AssetId, amount Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	v := amount
	c.Balances[asset] = &v
	return nil
}

// RemoveBalance tombstones a per-asset balance in the pending layer.
func (s *LayeredStorage) RemoveBalance(id common.ContractId, asset common.AssetId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		c = newContractData()
		s.pending[id] = c
	}
	c.Balances[asset] = nil
	return nil
}

// CommitPending merges pending into committed, field by field, then
// clears pending (spec.md §4.4): balance/storage entries in pending
// overwrite committed (including tombstones), bytecode/root overwrite
// committed only if present in pending.
func (s *LayeredStorage) CommitPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, data := range s.pending {
		dst, ok := s.committed[id]
		if !ok {
			dst = newContractData()
			s.committed[id] = dst
		}
		for k, v := range data.Balances {
			dst.Balances[k] = v
		}
		for k, v := range data.Slots {
			dst.Slots[k] = v
		}
		if data.Bytecode != nil {
			dst.Bytecode = data.Bytecode
		}
		if data.Root != nil {
			dst.Root = data.Root
		}
	}
	s.pending = make(map[common.ContractId]*ContractData)
}

// RejectPending discards pending entirely; committed is unaffected
// (spec.md §4.4).
func (s *LayeredStorage) RejectPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[common.ContractId]*ContractData)
}

// BlockHeight returns the metadata-supplied height (spec.md §4.4: "block
// context is read-through to the backing state, except that block-height
// queries return the metadata-supplied height").
func (s *LayeredStorage) BlockHeight() (uint32, error) {
	return s.metadata.BlockHeight, nil
}

// BlockHash returns the zero hash for future heights, otherwise reads
// through to the backing state.
func (s *LayeredStorage) BlockHash(height uint32) (common.Bytes32, error) {
	if height > s.metadata.BlockHeight {
		return common.Bytes32{}, nil
	}
	return s.state.BlockHash(height)
}

// Coinbase returns the metadata-supplied coinbase address.
func (s *LayeredStorage) Coinbase() (common.Address, error) {
	return s.metadata.Coinbase, nil
}

// Close releases the backing store.
func (s *LayeredStorage) Close() error {
	return s.state.Close()
}
