package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_StateRoundTrip(t *testing.T) {
	m := NewMemory()

	got, err := m.GetState("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	value := []byte("v1")
	require.NoError(t, m.PutState("a", value))
	value[0] = 'x'

	got, err = m.GetState("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.DelState("a"))
	got, err = m.GetState("a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_EmptyKey(t *testing.T) {
	m := NewMemory()
	assert.ErrorIs(t, m.PutState("", []byte("v")), ErrEmptyKey)
	_, err := m.GetState("")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemory_RangeIsOrderedAndBounded(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"c", "a", "b", "d", "\x00composite\x00k\x00"} {
		require.NoError(t, m.PutState(k, []byte(k)))
	}

	collect := func(start, end string) []string {
		it, err := m.GetStateByRange(start, end)
		require.NoError(t, err)
		defer it.Close()
		var keys []string
		for it.HasNext() {
			kv, err := it.Next()
			require.NoError(t, err)
			keys = append(keys, kv.Key)
		}
		return keys
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, collect("", ""))
	assert.Equal(t, []string{"b", "c"}, collect("b", "d"))
	assert.Equal(t, []string{"c", "d"}, collect("c", ""))
}

func TestMemory_IteratorClose(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.PutState("a", []byte("1")))

	it, err := m.GetStateByRange("", "")
	require.NoError(t, err)
	require.NoError(t, it.Close())
	assert.False(t, it.HasNext())
	_, err = it.Next()
	assert.Error(t, err)
}

func TestMemory_PrivateCollectionsAreSeparate(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.PutPrivateData("c1", "k", []byte("secret")))

	got, err := m.GetPrivateData("c1", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)

	got, err = m.GetPrivateData("c2", "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	pub, err := m.GetState("k")
	require.NoError(t, err)
	assert.Nil(t, pub)

	assert.Equal(t, []string{"k"}, m.PrivateKeys("c1"))
	assert.Empty(t, m.Keys())

	assert.Error(t, m.PutPrivateData("", "k", []byte("x")))
}

func TestMemory_Fail(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")
	m.Fail("k", boom)

	assert.ErrorIs(t, m.PutState("k", []byte("v")), boom)
	_, err := m.GetPrivateData("c", "k")
	assert.ErrorIs(t, err, boom)

	m.Fail("k", nil)
	assert.NoError(t, m.PutState("k", []byte("v")))
}

func TestMemory_TransactionHidesOwnWrites(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.PutState("old", []byte("1")))

	m.Begin()
	require.NoError(t, m.PutState("a", []byte("v")))
	require.NoError(t, m.PutPrivateData("c1", "h", []byte("secret")))
	require.NoError(t, m.DelState("old"))

	got, err := m.GetState("a")
	require.NoError(t, err)
	assert.Nil(t, got, "reads see committed state only")
	got, err = m.GetPrivateData("c1", "h")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = m.GetState("old")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	it, err := m.GetStateByRange("", "")
	require.NoError(t, err)
	kv, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "old", kv.Key)
	assert.False(t, it.HasNext())

	m.Commit()
	assert.Equal(t, []string{"a"}, m.Keys())
	assert.Equal(t, []string{"h"}, m.PrivateKeys("c1"))
}

func TestMemory_LastWriteWins(t *testing.T) {
	m := NewMemory()
	m.Begin()
	require.NoError(t, m.PutState("a", []byte("first")))
	require.NoError(t, m.PutState("a", []byte("second")))
	m.Commit()

	got, err := m.GetState("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestMemory_Rollback(t *testing.T) {
	m := NewMemory()
	m.Begin()
	require.NoError(t, m.PutState("a", []byte("v")))
	require.NoError(t, m.PutPrivateData("c1", "h", []byte("secret")))
	m.Rollback()
	m.Commit()

	assert.Empty(t, m.Keys())
	assert.Empty(t, m.PrivateKeys("c1"))
}
