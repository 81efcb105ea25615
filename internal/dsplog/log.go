// Package dsplog provides the engine's single logrus accessor,
// mirroring the teacher's log.GetLogger(): a global debug toggle read
// once from the environment, renamed from PHONO_DEBUG to DSP_DEBUG.
package dsplog

import (
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Get returns the package-wide logger, created lazily on first use so
// tests can set DSP_DEBUG before anything logs.
func Get() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		debug, err := strconv.ParseBool(os.Getenv("DSP_DEBUG"))
		if err == nil && debug {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
	})
	return logger
}
