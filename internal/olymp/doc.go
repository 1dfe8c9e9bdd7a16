// Package olymp provides types and functions for managing Russian school
// olympiad entries.
//
// The olymp package handles entry representation, identification, and change
// detection through snapshot-based diffing. Each entry is assigned a
// deterministic SHA1-based ID generated from its name, subject, and level,
// enabling reliable tracking across runs even when the source table is
// reordered.
package olymp
