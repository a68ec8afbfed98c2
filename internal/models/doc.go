// Package models defines the core domain models for splitshare.
//
// # Models
//
//   - Participant: a person who can take part in an expense (read-only to the split engine)
//   - Group: a reusable, ordered list of participants
//   - Strategy: how an expense total is apportioned (equal, percentage, exact)
//   - ShareEntry: one participant's computed portion of an expense
//   - Aggregates: totals and validity flags over a list of share entries
//
// # Design Principles
//
// 1. **Plain values**: models carry no behavior beyond small helpers, so the
// split engine can treat them as immutable inputs and return fresh copies.
// 2. **IDs over pointers**: relationships are expressed with ID strings.
// 3. **Order matters**: participant and share order is the order the caller
// supplied; nothing in the system reorders them.
package models
