// Package codec provides the serialization used for wire payloads.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func Decode[T any](bz []byte) (T, error) {
	msg := new(T)
	err := json.Unmarshal(bz, msg)
	if err != nil {
		return *msg, eris.Wrap(err, "")
	}
	return *msg, nil
}

func Encode(msg any) ([]byte, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}
