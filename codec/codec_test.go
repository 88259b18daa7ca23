package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hotreg/codec"
)

type lampV1 struct {
	Intensity float32
	Color     string
}

type lampV2 struct {
	Intensity float32
	Flicker   bool
}

func TestEncodeIsFieldKeyed(t *testing.T) {
	bz, err := codec.Encode(lampV1{Intensity: 2, Color: "red"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Intensity":2,"Color":"red"}`, string(bz))
}

func TestDecodeToleratesSchemaDrift(t *testing.T) {
	bz, err := codec.Encode(lampV1{Intensity: 0.5, Color: "blue"})
	require.NoError(t, err)

	v2, err := codec.Decode[lampV2](bz)
	require.NoError(t, err)
	assert.Equal(t, lampV2{Intensity: 0.5}, v2)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := codec.Decode[lampV1]([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payload")
}

func TestEncodeRejectsFunctions(t *testing.T) {
	_, err := codec.Encode(struct{ Fn func() }{Fn: func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode payload")
}
