package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainAligned = "flo/ir/aligned/v1"
	DomainRaw     = "flo/ir/raw/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed id for p over the canonical form
// of the shape p promises. Raw and Aligned programs over the same graph hash
// differently.
func Fingerprint(p Program) (string, error) {
	canonical, err := MarshalCanonical(Document(p))
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}

	domain := DomainRaw
	if p.SchemaAligned() {
		domain = DomainAligned
	}
	return hashWithDomain(domain, canonical), nil
}
