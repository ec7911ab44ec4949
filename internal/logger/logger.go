package logger

import (
	"os"

	"securebase-billing/internal/config"

	"github.com/sirupsen/logrus"
)

func New(cfg *config.Log) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stdout

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "text" {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	} else {
		l.Formatter = &logrus.JSONFormatter{}
	}

	return l
}
