// Package repository contains the data access layer for FlowScope.
//
// Repositories are split by backing store:
//   - postgres: metadata with relational integrity (experiments,
//     evaluation runs, API keys)
//   - clickhouse: high-volume append-mostly data (traces, spans,
//     assessments)
//
// Repositories accept and return domain types and do not contain
// business logic. Services compose repositories.
package repository
