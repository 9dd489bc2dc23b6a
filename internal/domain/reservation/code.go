package reservation

import (
	"strings"

	"github.com/google/uuid"
)

// CodePrefix starts every reservation code.
const CodePrefix = "RESV-"

// GenerateCode returns a code of the form "RESV-XXXXXXXX" taken from the
// first eight hex digits of a random UUID. Collisions are not checked here;
// the store's unique index on code rejects one.
func GenerateCode() string {
	return CodePrefix + strings.ToUpper(uuid.NewString()[:8])
}
