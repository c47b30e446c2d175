package fatrecov

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

var defaultLogFormatter = &log.TextFormatter{DisableTimestamp: true}

// infoFormatter prints Info() events as bare messages which are easier to read.
type infoFormatter struct{}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

// SetupLogging configures the standard logger writing to out.
// Verbosity 0 only shows errors, 1 adds warnings and info, 2 debug and 3 trace.
func SetupLogging(out io.Writer, quiet bool, verbose int) error {
	if quiet && verbose > 0 {
		return errors.New("can't set quiet and verbose flag at the same time")
	}

	log.SetOutput(out)
	log.SetFormatter(new(infoFormatter))

	switch {
	case quiet:
		log.SetLevel(log.PanicLevel)
	case verbose == 0:
		log.SetLevel(log.ErrorLevel)
	case verbose == 1:
		log.SetLevel(log.InfoLevel)
	case verbose == 2:
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.DebugLevel)
	case verbose == 3:
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.TraceLevel)
	default:
		return errors.New("verbose flag can only be set to 0, 1, 2 or 3")
	}
	return nil
}
