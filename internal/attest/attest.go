// Package attest implements the best-effort ledger integrity check applied to
// decrypted file payloads. The check is advisory: when the ledger cannot be
// reached the result is Unavailable and callers proceed with a warning, but a
// confirmed hash mismatch must block the operation.
package attest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
)

// Result is the outcome of an attestation check.
type Result int

const (
	// Verified means the ledger returned a hash and it matched the payload.
	Verified Result = iota
	// Unavailable means the ledger could not be consulted. Callers treat
	// this as a warning, never as a failure.
	Unavailable
	// Mismatch means the ledger returned a hash that does not match the
	// payload. This is the only result that blocks the operation.
	Mismatch
)

func (r Result) String() string {
	switch r {
	case Verified:
		return "verified"
	case Unavailable:
		return "unavailable"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Blocks reports whether the result must abort the surrounding operation.
func (r Result) Blocks() bool {
	return r == Mismatch
}

// Source resolves the expected payload hash recorded on the ledger for the
// given file reference. An error return means the ledger is unreachable or
// holds no record for ref; it is never treated as an integrity failure.
type Source interface {
	ExpectedHash(ctx context.Context, ref string) (string, error)
}

// Verifier checks a decrypted payload against its ledger record.
type Verifier interface {
	Verify(ctx context.Context, ref string, payload []byte) Result
}

type ledgerVerifier struct {
	source Source
	logger *logger.Logger
}

// NewVerifier returns a Verifier backed by the given ledger source.
func NewVerifier(source Source, log *logger.Logger) Verifier {
	return &ledgerVerifier{source: source, logger: log}
}

// Verify hashes payload with SHA-256 and compares it to the hash the ledger
// recorded for ref. Hashes are compared case-insensitively and the "0x"
// prefix is ignored on both sides.
func (v *ledgerVerifier) Verify(ctx context.Context, ref string, payload []byte) (result Result) {
	defer func() { metrics.RecordAttestation(result.String()) }()

	expected, err := v.source.ExpectedHash(ctx, ref)
	if err != nil {
		v.logger.Warn().Err(err).Str("ref", ref).Msg("ledger attestation unavailable")
		return Unavailable
	}

	actual := HashPayload(payload)
	if !equalHash(expected, actual) {
		v.logger.Error().
			Str("ref", ref).
			Str("expected", expected).
			Str("actual", actual).
			Msg("ledger attestation mismatch")
		return Mismatch
	}
	return Verified
}

// HashPayload returns the 0x-prefixed lowercase hex SHA-256 digest of payload,
// matching the format file hashes are recorded in on the ledger.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "0x" + hex.EncodeToString(sum[:])
}

func equalHash(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "0x")
	b = strings.TrimPrefix(strings.ToLower(b), "0x")
	return a == b
}
