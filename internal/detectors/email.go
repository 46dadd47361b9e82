package detectors

import (
	"regexp"

	"github.com/iocdefang/iocdefang/internal/types"
)

var reEmail = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

// Emails finds email addresses.
func Emails(text string) []types.Match {
	return findAll(reEmail, types.KindEmail, text)
}
