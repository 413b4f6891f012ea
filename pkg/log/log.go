package log

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

func New(version string) *logrus.Entry {
	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	logger.Out = os.Stderr
	return logger.WithFields(logrus.Fields{
		"version": version,
		"program": "ghaup",
	})
}

func SetLevel(level string, logE *logrus.Entry) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logerr.WithError(logE, err).WithFields(logrus.Fields{
			"log_level": level,
		}).Error("the log level is invalid")
		return
	}
	logE.Logger.Level = lvl
}
