package graph

import "errors"

// ErrUnknownNode is returned by operations that require a node-id
// already present in the store (set-entry, unset-entry) when it is not.
var ErrUnknownNode = errors.New("graph: node not found")

// ErrDuplicateNode is returned by AddNode when the id is already present.
var ErrDuplicateNode = errors.New("graph: node already exists")

// ErrMissingEndpoint is returned by AddEdge/RemoveEdge when either
// endpoint is absent from the store.
var ErrMissingEndpoint = errors.New("graph: edge endpoint not found")
