// Package docrag crawls a documentation site, indexes its text for semantic
// retrieval, and answers natural language questions grounded in the
// retrieved passages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, chromem/, openai/).
package docrag
