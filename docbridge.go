// Package docbridge loads framework and library documentation into a shared
// document store so that several independent consumers (chat agents,
// retrieval pipelines) can query the same knowledge without re-ingesting it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, chroma/, goquery/).
package docbridge
