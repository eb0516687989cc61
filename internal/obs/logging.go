// Package obs contains observability utilities such as logging.
package obs

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the global structured logger used by the service.
//
// Logger is exported to allow other packages to use it for logging.
var Logger zerolog.Logger

// InitLogger initializes the global Logger writing JSON lines to stdout.
func InitLogger() {
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
