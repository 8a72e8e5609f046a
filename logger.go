package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

var rootLog = zerolog.New(os.Stderr).With().Timestamp().Logger()

type logger struct {
	lookupLog zerolog.Logger
	cacheLog  zerolog.Logger
}

func (l *logger) LookupError(kind ipwherelib.Kind, err error) {
	l.lookupLog.Error().Str("provider", kind.Name).Err(err).Msg("")
}

func (l *logger) CacheError(err error) {
	l.cacheLog.Warn().Err(err).Msg("")
}

func newLogger() ipwherelib.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		lookupLog: zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "lookup").Logger(),
		cacheLog:  zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "cache").Logger(),
	}
}
