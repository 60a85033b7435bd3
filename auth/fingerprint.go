package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives a device correlation key from the request's source
// address and the client-declared user agent. The same (addr, agent) pair
// always yields the same fingerprint; different pairs collide only with
// digest-collision probability.
//
// The fingerprint is not an authentication factor. Two clients sharing both
// the address and the agent string share a fingerprint, and therefore share
// one active-session slot. That is a known limitation of the scheme.
func Fingerprint(addr, agent string) string {
	h := sha256.New()
	h.Write([]byte(addr))
	h.Write([]byte{':'})
	h.Write([]byte(agent))
	return hex.EncodeToString(h.Sum(nil))
}
