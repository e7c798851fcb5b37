// Package bt is a resumable behavior-tree engine for agents that are updated
// once per simulation step.
//
// A host builds a tree from composites (Selector, Sequence), decorators and
// leaves wrapping its own Behavior implementations, then calls Tree.Update
// with its blackboard every step. Running is a returned status, not a
// suspended call: nodes keep just enough bookkeeping (last status, run
// length, the Sequence resume index) to pick up where they left off.
//
// A tree must be driven by one caller at a time.
package bt
