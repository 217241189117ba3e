// Package testhelper silences zerolog while tests run. Import it for its side
// effect; set PTREE_TEST_LOG to keep log output.
package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// EnvTestLog keeps logging enabled in tests when set
const EnvTestLog = "PTREE_TEST_LOG"

func init() {
	if testing.Testing() && os.Getenv(EnvTestLog) == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

// Enabled reports whether test logging was requested
func Enabled() bool {
	return os.Getenv(EnvTestLog) != ""
}
