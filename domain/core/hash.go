package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// RunFingerprint identifies the reproducible identity of a simulation run:
// two runs with equal fingerprints were configured identically and, given
// the same evaluator, must produce the same distributions.
type RunFingerprint Hash

func NewRunFingerprint(data []byte) RunFingerprint { return RunFingerprint(NewHash(data)) }

func (h RunFingerprint) String() string { return Hash(h).String() }

// ComputeRunFingerprint hashes the seeded configuration together with the
// parameter set. Map-valued fields are folded in key order so the
// fingerprint does not depend on Go's map iteration.
func ComputeRunFingerprint(seed int64, iterations int, parameters map[string]map[string]float64) RunFingerprint {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	var data strings.Builder
	fmt.Fprintf(&data, "seed=%d;iterations=%d;", seed, iterations)
	for _, name := range names {
		data.WriteString(name)
		data.WriteString("{")
		fields := parameters[name]
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&data, "%s=%v;", k, fields[k])
		}
		data.WriteString("}")
	}

	return NewRunFingerprint([]byte(data.String()))
}
