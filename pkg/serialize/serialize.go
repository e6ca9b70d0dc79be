// Package serialize persists Problems and Solutions to an opaque binary
// form, the Go analogue of the pickle files the implementation this
// package is ported from uses to hand a problem or solution between the
// solve and print stages of its CLI.
package serialize

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/asi-uniovi/edarop-go/pkg/core"
)

// ErrUnsupportedVersion is returned by Decode when the version byte at the
// start of the stream does not match any version this package knows how to
// read.
var ErrUnsupportedVersion = errors.New("unsupported serialization version")

// version 1 is the only format so far: a single byte tag, followed by a gob
// stream of the payload.
const version1 byte = 1

// EncodeProblem writes p to w in the current version's format.
func EncodeProblem(w io.Writer, p *core.Problem) error {
	return encode(w, p)
}

// DecodeProblem reads a Problem previously written by EncodeProblem.
func DecodeProblem(r io.Reader) (*core.Problem, error) {
	var p core.Problem
	if err := decode(r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeSolution writes sol to w in the current version's format.
func EncodeSolution(w io.Writer, sol *core.Solution) error {
	return encode(w, sol)
}

// DecodeSolution reads a Solution previously written by EncodeSolution.
func DecodeSolution(r io.Reader) (*core.Solution, error) {
	var sol core.Solution
	if err := decode(r, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

func encode(w io.Writer, payload any) error {
	if _, err := w.Write([]byte{version1}); err != nil {
		return fmt.Errorf("writing version tag: %w", err)
	}
	return gob.NewEncoder(w).Encode(payload)
}

func decode(r io.Reader, payload any) error {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return fmt.Errorf("reading version tag: %w", err)
	}
	if tag[0] != version1 {
		return fmt.Errorf("%w: got tag %d", ErrUnsupportedVersion, tag[0])
	}
	return gob.NewDecoder(r).Decode(payload)
}

// EncodeProblemBytes is a convenience wrapper returning the encoded bytes
// directly, for call sites that do not already hold a Writer (e.g. building
// a file's full contents before a single os.WriteFile call).
func EncodeProblemBytes(p *core.Problem) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeProblem(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeSolutionBytes is the Solution analogue of EncodeProblemBytes.
func EncodeSolutionBytes(sol *core.Solution) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSolution(&buf, sol); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
