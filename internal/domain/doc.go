// Package domain holds the wire types of the batch correction service.
//
// # Messages
//
// The source topic carries one JSON correction request per message:
//
//	{"id": "optional", "fuel": "diesel", "volume_m3": 1000, "temp_c": 25}
//	{"fuel": "hfo", "mass_ton": 500, "temp_c": 40, "rho15": 991.0}
//
// Exactly one of volume_m3 and mass_ton is set, temp_c is required, and
// rho15 overrides the catalog density of the named fuel.
//
// The sink topic receives a [CorrectionRecord] keyed by the request ID, with
// headers mode, table and processed_at (RFC 3339).
//
// # ID Generation
//
// When a request carries no ID, one is derived as a name-based (SHA-1) UUID
// of topic|partition|offset|payload. Replaying the same message yields the
// same ID, so downstream consumers can upsert idempotently. See [requestID].
//
// # Error kinds
//
// [ErrorKind] maps failures to a short label used by metrics, logs and HTTP
// error bodies.
package domain
