// Package snapshot encodes engine state as zstd-compressed JSON for storage.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// ErrVersion is returned when a decoded snapshot carries an unsupported
// schema version.
var ErrVersion = errors.New("unsupported snapshot version")

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode serializes s.
//
// Precondition: s must be non-nil.
// Postcondition: Returns a compressed JSON document that Decode restores to
// a state equal to s.
func Encode(s *state.EngineState) ([]byte, error) {
	if s == nil {
		return nil, errors.New("encoding snapshot: nil state")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode restores a state produced by Encode.
//
// Postcondition: Returns a state whose Version equals state.Version, or a
// non-nil error wrapping ErrVersion for any other version.
func Decode(b []byte) (*state.EngineState, error) {
	raw, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	var s state.EngineState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != state.Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return &s, nil
}
