// Package audience resolves the concrete recipient list of a messaging
// campaign from an audience rule.
//
// Audience is a closed set of variants; Service.Resolve switches over all
// of them. Recipients are deduplicated by phone number and capped.
//
// Repository implementations live in repository/postgres/.
package audience
