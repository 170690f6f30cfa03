package rewrite

import (
	"errors"
	"fmt"
)

// InvariantError reports a contract breach by the caller: the tree
// handed to the rewriter does not have the shape the caller claimed.
// It is deliberately a different kind from scan.ParseError, so callers
// can tell "bad input text" apart from "internal invariant broken".
//
// Invariant violations include:
//   - Node not found: a parent was named that does not actually hold
//     the node among its declared children
//   - Leaf parent: a leaf was named as a parent, but leaves have no
//     child slots
type InvariantError struct {
	// Code identifies the violation category.
	Code InvariantErrorCode

	// Message is a human-readable description.
	Message string

	// NodeType is the type name of the node being located.
	NodeType string

	// ParentType is the type name of the claimed parent, if any.
	ParentType string
}

// InvariantErrorCode categorizes invariant violations.
type InvariantErrorCode string

const (
	// ErrCodeNodeNotFound indicates the node is not among the claimed
	// parent's children.
	ErrCodeNodeNotFound InvariantErrorCode = "NODE_NOT_FOUND"

	// ErrCodeLeafParent indicates a leaf was claimed as a parent.
	ErrCodeLeafParent InvariantErrorCode = "LEAF_PARENT"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.ParentType != "" {
		return fmt.Sprintf("%s: %s (node=%s, parent=%s)", e.Code, e.Message, e.NodeType, e.ParentType)
	}
	return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeType)
}

// IsInvariantViolation returns true if the error is an invariant
// violation of any kind. Uses errors.As to handle wrapped errors.
func IsInvariantViolation(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// newNodeNotFoundError creates an InvariantError for a node that could
// not be located among its claimed parent's children.
func newNodeNotFoundError(nodeType, parentType string) *InvariantError {
	return &InvariantError{
		Code:       ErrCodeNodeNotFound,
		Message:    "node not found among parent's declared children",
		NodeType:   nodeType,
		ParentType: parentType,
	}
}

// newLeafParentError creates an InvariantError for a leaf claimed as a
// parent.
func newLeafParentError(nodeType, parentType string) *InvariantError {
	return &InvariantError{
		Code:       ErrCodeLeafParent,
		Message:    "leaf nodes have no child slots",
		NodeType:   nodeType,
		ParentType: parentType,
	}
}
