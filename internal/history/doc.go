// Package history stores validation runs in SQLite and compares them.
//
// A run is recorded with --record and later read back by the compare
// command, which reports findings that appeared or disappeared between two
// runs over the same root.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets a watch session record while compare reads
package history
