package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/serde"
)

func TestJSONEngine_GetFormat(t *testing.T) {
	ctx := NewContext()

	require.Equal(t, serde.FormatJSON, ctx.GetFormat())
}

func TestJSONEngine_Marshal(t *testing.T) {
	ctx := NewContext()

	data, err := ctx.Marshal(struct{ Index uint32 }{Index: 2})
	require.NoError(t, err)
	require.Equal(t, `{"Index":2}`, string(data))

	_, err = ctx.Marshal(make(chan int))
	require.EqualError(t, err, "json: unsupported type: chan int")
}

func TestJSONEngine_Unmarshal(t *testing.T) {
	ctx := NewContext()

	var m struct{ Index uint32 }
	err := ctx.Unmarshal([]byte(`{"Index":3}`), &m)
	require.NoError(t, err)
	require.Equal(t, uint32(3), m.Index)

	err = ctx.Unmarshal([]byte(`[]`), &m)
	require.Error(t, err)
}
