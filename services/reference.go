package services

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

// ReferencePrefix is the fixed prefix on every public claim reference.
const ReferencePrefix = "BIC"

const referenceSuffixLen = 4

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReference builds a public claim reference: fixed prefix, base-36
// millisecond timestamp, random base-36 suffix. The generator does not prove
// uniqueness; the claims table's unique index does, and creation retries with
// a fresh reference on the rare collision.
func GenerateReference(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	buf := make([]byte, referenceSuffixLen)
	rand.Read(buf)
	suffix := make([]byte, referenceSuffixLen)
	for i, b := range buf {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}

	return ReferencePrefix + "-" + ts + "-" + string(suffix)
}
