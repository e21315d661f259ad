package transforms

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

// SetLogger sets the logger used for deprecation warnings. A nil logger
// restores the default.
func SetLogger(l *log.Logger) {
	logger.Store(l)
}

func getLogger() *log.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return log.Default()
}
