package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger, initialized once at startup.
var Log = logrus.New()

// Init configures the global logger. JSON output keeps the logs machine-parsable
// when the service runs behind a log collector.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
