// Package ir provides the canonical intermediate representation for flo.
//
// This package contains the graph model and its serialized shapes only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Node ids are unique within an IR and never rewritten after creation
//   - Adjacency is typed (Node.Edges), never read from the attribute bag
//   - Schema alignment is carried by the Program type (Raw or Aligned),
//     not by a flag that callers set or infer
//   - All JSON tags use snake_case
package ir
