package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corevm-labs/uvm/common"
)

type memState struct {
	bytecode map[common.ContractId][]byte
	roots    map[common.ContractId]ContractRoot
	slots    map[common.ContractId]map[common.Bytes32]common.Bytes32
	balances map[common.ContractId]map[common.AssetId]Word
}

func newMemState() *memState {
	return &memState{
		bytecode: make(map[common.ContractId][]byte),
		roots:    make(map[common.ContractId]ContractRoot),
		slots:    make(map[common.ContractId]map[common.Bytes32]common.Bytes32),
		balances: make(map[common.ContractId]map[common.AssetId]Word),
	}
}

func (m *memState) ContractBytecode(id common.ContractId) ([]byte, error) { return m.bytecode[id], nil }
func (m *memState) SetContractBytecode(id common.ContractId, code []byte) error {
	m.bytecode[id] = code
	return nil
}
func (m *memState) ContractRoot(id common.ContractId) (common.Salt, common.Bytes32, bool, error) {
	r, ok := m.roots[id]
	return r.Salt, r.Root, ok, nil
}
func (m *memState) SetContractRoot(id common.ContractId, salt common.Salt, root common.Bytes32) error {
	m.roots[id] = ContractRoot{Salt: salt, Root: root}
	return nil
}
func (m *memState) StorageSlot(id common.ContractId, key common.Bytes32) (common.Bytes32, bool, error) {
	v, ok := m.slots[id][key]
	return v, ok, nil
}
func (m *memState) SetStorageSlot(id common.ContractId, key, value common.Bytes32) error {
	if m.slots[id] == nil {
		m.slots[id] = make(map[common.Bytes32]common.Bytes32)
	}
	m.slots[id][key] = value
	return nil
}
func (m *memState) RemoveStorageSlot(id common.ContractId, key common.Bytes32) error {
	delete(m.slots[id], key)
	return nil
}
func (m *memState) AssetBalance(id common.ContractId, asset common.AssetId) (Word, bool, error) {
	v, ok := m.balances[id][asset]
	return v, ok, nil
}
func (m *memState) SetAssetBalance(id common.ContractId, asset common.AssetId, amount Word) error {
	if m.balances[id] == nil {
		m.balances[id] = make(map[common.AssetId]Word)
	}
	m.balances[id][asset] = amount
	return nil
}
func (m *memState) BlockHeight() (uint32, error)                 { return 0, nil }
func (m *memState) BlockHash(uint32) (common.Bytes32, error)     { return common.Bytes32{}, nil }
func (m *memState) Coinbase() (common.Address, error)            { return common.Address{}, nil }
func (m *memState) Close() error                                 { return nil }

func TestLayeredStorageInsertRejectCommitInsertGet(t *testing.T) {
	state := newMemState()
	s := NewLayeredStorage(state, Metadata{})

	var id common.ContractId
	id[0] = 1
	var asset common.AssetId
	asset[0] = 9

	require.NoError(t, s.SetAssetBalance(id, asset, 100))
	v, ok, err := s.AssetBalance(id, asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Word(100), v)

	s.RejectPending()
	_, ok, err = s.AssetBalance(id, asset)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetAssetBalance(id, asset, 55))
	s.CommitPending()
	v, ok, err = s.AssetBalance(id, asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Word(55), v)

	require.NoError(t, s.SetAssetBalance(id, asset, 77))
	v, ok, err = s.AssetBalance(id, asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Word(77), v, "pending shadows committed before commit")
}

func TestLayeredStorageTombstoneOverridesBackingStore(t *testing.T) {
	state := newMemState()
	var id common.ContractId
	id[0] = 2
	var key common.Bytes32
	key[0] = 3
	var val common.Bytes32
	val[0] = 42
	require.NoError(t, state.SetStorageSlot(id, key, val))

	s := NewLayeredStorage(state, Metadata{})

	v, ok, err := s.StorageSlot(id, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, val, v)

	require.NoError(t, s.RemoveStorageSlot(id, key))
	_, ok, err = s.StorageSlot(id, key)
	require.NoError(t, err)
	require.False(t, ok, "tombstone in pending must hide the backing store's value")

	s.CommitPending()
	_, ok, err = s.StorageSlot(id, key)
	require.NoError(t, err)
	require.False(t, ok, "tombstone committed must still hide the backing store's value")
}

func TestLayeredStorageCommitMergesFieldByField(t *testing.T) {
	state := newMemState()
	s := NewLayeredStorage(state, Metadata{})

	var id common.ContractId
	id[0] = 4
	code := []byte{0xde, 0xad}
	require.NoError(t, s.SetContractBytecode(id, code))
	s.CommitPending()

	var asset common.AssetId
	asset[0] = 1
	require.NoError(t, s.SetAssetBalance(id, asset, 10))
	s.CommitPending()

	gotCode, err := s.ContractBytecode(id)
	require.NoError(t, err)
	require.Equal(t, code, gotCode, "bytecode committed earlier must survive a later, unrelated commit")

	v, ok, err := s.AssetBalance(id, asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Word(10), v)
}

func TestLayeredStorageBlockHeightOverridesBackingStore(t *testing.T) {
	state := newMemState()
	s := NewLayeredStorage(state, Metadata{BlockHeight: 9})
	height, err := s.BlockHeight()
	require.NoError(t, err)
	require.Equal(t, uint32(9), height)

	h, err := s.BlockHash(100)
	require.NoError(t, err)
	require.Equal(t, common.Bytes32{}, h)
}
