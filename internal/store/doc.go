// Package store provides SQLite-backed run history for tsvselect.
//
// A run records the input path, the rule specifications with the number of
// rows each selected, and the final intersected rows. Runs are append-only.
//
// # Ordering
//
// Every run gets a seq from a logical counter (MAX(seq)+1 inside the insert
// transaction). All listings use ORDER BY seq ASC; result rows keep their
// output position.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
