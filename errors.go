package rbarc

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"

	"github.com/scigolib/rbarc/internal/block"
	"github.com/scigolib/rbarc/internal/huffman"
	"github.com/scigolib/rbarc/internal/rbtree"
)

// Kind classifies an Error the way the archive's callers (the CLI in
// particular) need to distinguish: each maps to a distinct process exit
// code.
type Kind int

const (
	KindIO Kind = iota
	KindBadMagic
	KindDuplicateName
	KindNotFound
	KindCorruptStream
	KindInvalidName
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IoError"
	case KindBadMagic:
		return "BadMagic"
	case KindDuplicateName:
		return "DuplicateName"
	case KindNotFound:
		return "NotFound"
	case KindCorruptStream:
		return "CorruptStream"
	case KindInvalidName:
		return "InvalidName"
	default:
		return "Unknown"
	}
}

// Error is the archive facade's error type: every failure returned by a
// public method is either an *Error or wraps one, so callers can recover
// the Kind with errors.As.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rbarc: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("rbarc: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Op: op, Err: xerrors.Errorf("%s: %w", op, err)}
}

func invalidNameErr(op, name string) error {
	return &Error{Kind: KindInvalidName, Op: op, Err: fmt.Errorf("invalid name %q", name)}
}

// classify translates an error surfaced by the storage-layer packages into
// the archive's own Kind taxonomy, preserving the underlying error as the
// cause.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, block.ErrBadMagic):
		return &Error{Kind: KindBadMagic, Op: op, Err: err}
	case errors.Is(err, rbtree.ErrDuplicateName):
		return &Error{Kind: KindDuplicateName, Op: op, Err: err}
	case errors.Is(err, rbtree.ErrNotFound):
		return &Error{Kind: KindNotFound, Op: op, Err: err}
	case errors.Is(err, huffman.ErrCorruptStream):
		return &Error{Kind: KindCorruptStream, Op: op, Err: err}
	default:
		return ioErr(op, err)
	}
}

// ExitCode maps an error returned by the facade to a CLI exit status.
// Generic (unclassified) errors exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if !errors.As(err, &e) {
		return 1
	}
	switch e.Kind {
	case KindNotFound:
		return 2
	case KindDuplicateName:
		return 3
	case KindBadMagic:
		return 4
	case KindCorruptStream:
		return 5
	case KindInvalidName:
		return 6
	default:
		return 1
	}
}
