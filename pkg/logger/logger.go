package logger

import (
	"github.com/sirupsen/logrus"
)

// New builds the application logger. An unparseable level falls back to
// info rather than failing startup.
func New(level string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.JSONFormatter{})

	return log
}
