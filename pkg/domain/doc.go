// Package domain contains the core types of the framepilot navigation
// engine: the frame context, the hierarchical machine state, the event
// vocabulary, and the snapshot projection shared by every adapter.
//
// The package is dependency-free apart from event wire decoding and holds
// no behavior beyond construction, cloning, and validation. Transition
// logic lives in pkg/machine; session orchestration in pkg/registry.
package domain
