package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ohler55/ojg/oj"
)

// HashInputs derives a stable identity key from a set of values. The
// analytics engines are pure, so memoizing their results on this key is an
// efficiency measure only, never a correctness requirement.
func HashInputs(args ...any) string {
	hasher := sha256.New()
	for _, arg := range args {
		hasher.Write([]byte(oj.JSON(arg)))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
