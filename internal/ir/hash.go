package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainRecord      = "tradeledger/record/v1"
	DomainInstruction = "tradeledger/instruction/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordDigest identifies a record by the hash of its canonical encoding.
// Two records share a digest only if they encode to the same bytes.
func RecordDigest(r TradeRecord) (string, error) {
	data, err := MarshalRecord(r)
	if err != nil {
		return "", fmt.Errorf("RecordDigest: %w", err)
	}
	return hashWithDomain(DomainRecord, data), nil
}

// InstructionDigest hashes raw instruction bytes as received, whether or not
// they decode. The host call log uses it to correlate retries.
func InstructionDigest(data []byte) string {
	return hashWithDomain(DomainInstruction, data)
}

// MustRecordDigest is like RecordDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRecordDigest(r TradeRecord) string {
	d, err := RecordDigest(r)
	if err != nil {
		panic(err)
	}
	return d
}
