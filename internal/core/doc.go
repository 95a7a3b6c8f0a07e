// Package core provides the lookup logic for the laboratory error catalog.
//
// The package has no UI dependencies. It can be used by the web handlers,
// tests, or any other frontend without modification.
//
// # Architecture
//
// The package is organized around a few small concepts:
//
//   - Table: the immutable, in-memory copy of the error spreadsheet.
//   - Loader: reads XLSX or CSV files (optionally gzip, zstd or xz
//     compressed) into a Table.
//   - Cache: load-once-per-process memoization keyed by file path.
//   - Service: the entry point used by handlers (values, search, status).
//
// # Search Flow
//
//  1. The user picks a search dimension ([ColumnAnalyte] or [ColumnLabError])
//  2. [AvailableValues] lists the distinct, sorted values of that column
//  3. The user picks a value and [Search] returns every matching record
//     in table order
//  4. [DisplayFields] decides which fields of each record are shown
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - LOAD001-LOAD004: Catalog load errors (missing, unsupported, corrupt)
//   - SRCH001-SRCH003: Search errors (unknown column, no match, no options)
//   - PROP001-PROP004: Proposal errors (validation, endpoint, disabled, busy)
//
// None of these errors is fatal: a failed load leaves the service running
// in a "no data available" state.
package core
