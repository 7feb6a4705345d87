// Package domain defines the core value types of the student registry
// statistics engine.
//
// Types in this package are pure value objects with no behavior, no database
// dependencies, and no HTTP concerns. They are the shared language between
// handlers, the aggregation engine, the audience resolver and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Pure helper functions on the types are allowed
//   - Constants and enums belong here
package domain
