// Package domain contains the core entities of FlowScope: traces and spans
// captured from GenAI applications, assessments (feedback and expectations)
// attached to them, experiments grouping related traces, and evaluation runs
// executed against datasets or recorded traces.
//
// Entities here are persistence-agnostic. ClickHouse-backed entities carry
// `ch` struct tags for column scanning; control-plane entities live in
// PostgreSQL.
package domain
