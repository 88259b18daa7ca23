// Package codec is the field-keyed encoding used for component payloads at
// the reload boundary. Fields are matched by name on decode, so payloads
// written by an older version of a type still load: unknown fields are
// ignored and absent fields keep their zero value.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Decode parses a payload into a new T.
func Decode[T any](bz []byte) (T, error) {
	comp := new(T)
	err := json.Unmarshal(bz, comp)
	if err != nil {
		return *comp, eris.Wrap(err, "decode payload")
	}
	return *comp, nil
}

// Encode returns the payload of comp.
func Encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "encode payload")
	}
	return bz, nil
}
