package api

import "time"

// StoredDefinition is one revision of a rendered state machine as kept by
// a definition store. Document is the compact ASL JSON; Fingerprint is its
// SHA-256 (see FingerprintOf).
type StoredDefinition struct {
	Name        string
	Revision    string
	Fingerprint string
	Document    string
	CreatedAt   time.Time
}
