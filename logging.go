package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logg = logrus.New()

// InitLogger configures diagnostic output. Everything goes to stderr so
// the result document stays the only thing on stdout; when filePath is
// set the same stream is mirrored into a log file.
func InitLogger(quiet bool, filePath string) error {
	logg.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if quiet {
		logg.SetLevel(logrus.ErrorLevel)
	} else {
		logg.SetLevel(logrus.InfoLevel)
	}

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	logg.SetOutput(io.MultiWriter(writers...))

	return nil
}
