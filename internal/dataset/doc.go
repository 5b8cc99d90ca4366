// Package dataset builds the consolidated master dataset for the ANS
// Pulse analytics service.
//
// The package owns the key-normalization rule used by every join, the
// outer/left join consolidation of the three raw ANS tables, the derived
// quarter-over-quarter KPIs, and the post-consolidation schema validation.
//
// The consolidation pipeline is fail-open: extraction failures
// degrade to empty inputs and schema violations are reported to the
// caller's logger without aborting the build, so the dashboard stays
// available on partially bad data.
package dataset
