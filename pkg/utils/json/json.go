// Package json provides the JSON codec used across secq.
// It uses sonic on amd64/arm64 and falls back to encoding/json elsewhere.
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

// RawMessage is a raw encoded JSON value.
type RawMessage = stdjson.RawMessage

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// Valid reports whether data is a valid JSON encoding.
	Valid func(data []byte) bool

	// NewEncoder creates a new JSON encoder for the writer.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a new JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

// Encoder is a JSON encoder interface.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

func init() {
	// sonic only supports amd64 and arm64
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		useSonic(sonic.ConfigStd)
		return
	}
	useStdlib()
}

func useSonic(api sonic.API) {
	Marshal = api.Marshal
	Unmarshal = api.Unmarshal
	Valid = api.Valid
	NewEncoder = func(w io.Writer) Encoder {
		return api.NewEncoder(w)
	}
	NewDecoder = func(r io.Reader) Decoder {
		return api.NewDecoder(r)
	}
	usingSonic = true
}

func useStdlib() {
	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	Valid = stdjson.Valid
	NewEncoder = func(w io.Writer) Encoder {
		return stdjson.NewEncoder(w)
	}
	NewDecoder = func(r io.Reader) Decoder {
		return stdjson.NewDecoder(r)
	}
	usingSonic = false
}

// IsUsingSonic returns true if sonic is being used for JSON operations.
func IsUsingSonic() bool {
	return usingSonic
}
