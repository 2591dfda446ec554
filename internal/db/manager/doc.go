// Package manager implements server-level database operations: existence
// checks, database creation, the collation bootstrap, and the version banner
// query. All operations go through the DBConnection abstraction.
package manager
