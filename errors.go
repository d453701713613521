package searchgraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/searchgraph/arena"
	"github.com/hupe1980/searchgraph/internal/borrow"
)

var (
	// ErrStaleHandle is returned when an id or handle refers to a slot
	// freed by a prior collection. Recover by re-navigating from a root
	// that survived.
	ErrStaleHandle = errors.New("stale handle")

	// ErrAlreadyExpanded is returned when expansion is requested on an
	// edge whose target is already set.
	ErrAlreadyExpanded = errors.New("edge already expanded")

	// ErrOutOfRange is returned when a traversal index exceeds a child or
	// parent list's length.
	ErrOutOfRange = errors.New("traversal index out of range")

	// ErrBorrowConflict is returned when acquiring a handle would violate
	// the single-writer/multiple-reader discipline.
	ErrBorrowConflict = errors.New("borrow conflict")

	// ErrUnknownRoot is returned by Collect when a root id does not refer
	// to a live vertex.
	ErrUnknownRoot = errors.New("unknown root vertex")

	// ErrPathMismatch is returned by ResolvePath when consecutive path
	// items are not structurally connected.
	ErrPathMismatch = errors.New("path step does not connect")
)

// OutOfRangeError reports a traversal index beyond a list's length.
//
// It unwraps to ErrOutOfRange.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("traversal index %d out of range (len %d)", e.Index, e.Len)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// UnknownRootError reports a collection root that is not a live vertex.
//
// It unwraps to ErrUnknownRoot.
type UnknownRootError struct {
	ID arena.VertexID
}

func (e *UnknownRootError) Error() string {
	return fmt.Sprintf("unknown root vertex %s", e.ID)
}

func (e *UnknownRootError) Unwrap() error { return ErrUnknownRoot }

// translateError normalizes errors from internal packages to the package
// sentinels so callers only need errors.Is against the taxonomy above.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sv *arena.StaleVertexError
	if errors.As(err, &sv) {
		return fmt.Errorf("%w: %w", ErrStaleHandle, err)
	}
	var se *arena.StaleEdgeError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %w", ErrStaleHandle, err)
	}

	var ae *arena.AlreadyExpandedError
	if errors.As(err, &ae) {
		return fmt.Errorf("%w: %w", ErrAlreadyExpanded, err)
	}

	if errors.Is(err, borrow.ErrExclusiveHeld) || errors.Is(err, borrow.ErrSharedHeld) {
		return fmt.Errorf("%w: %w", ErrBorrowConflict, err)
	}

	return err
}
