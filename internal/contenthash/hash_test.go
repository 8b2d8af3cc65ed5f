package contenthash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes_KnownVector(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Bytes(nil))
}

func TestOf_StableAcrossFieldOrder(t *testing.T) {
	a, err := Of(map[string]interface{}{"ID": "M1", "Producer": "Acme"})
	require.NoError(t, err)
	b, err := Of(struct {
		Producer string `json:"Producer"`
		ID       string `json:"ID"`
	}{Producer: "Acme", ID: "M1"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Bytes([]byte(`{"ID":"M1","Producer":"Acme"}`)), a)
	assert.True(t, Valid(a))
}

func TestOf_DiffersOnContent(t *testing.T) {
	a, err := Of(map[string]interface{}{"Recycled": false})
	require.NoError(t, err)
	b, err := Of(map[string]interface{}{"Recycled": true})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOf_Unencodable(t *testing.T) {
	_, err := Of(func() {})
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid(strings.Repeat("A", Size)))
	assert.False(t, Valid(strings.Repeat("a", Size-1)))
	assert.True(t, Valid(strings.Repeat("0f", Size/2)))
}
