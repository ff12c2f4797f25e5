// Package sdlog is the ambient structured-logging wrapper every other
// package logs through, mirroring dc4eu-vc/pkg/logger's Log{logr.Logger}
// embedding and New/NewSimple constructors built on go-logr/zapr over
// go.uber.org/zap.
package sdlog

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Log embeds logr.Logger so callers use the standard logr.Logger API
// (Info/Error/V/WithValues/WithName) without depending on zap directly.
type Log struct {
	logr.Logger
}

// New builds a Log named name. production selects zap's JSON production
// encoder config; the development config (console-friendly encoder) is
// used otherwise.
func New(name string, production bool) (Log, error) {
	var zl *zap.Logger
	var err error
	if production {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		return Log{}, err
	}
	return Log{zapr.NewLogger(zl).WithName(name)}, nil
}

// NewSimple builds a development Log named name, discarding the
// possibility of a construction error (zap.NewDevelopment never fails on
// default config, matching dc4eu-vc/pkg/logger.NewSimple's contract).
func NewSimple(name string) Log {
	l, err := New(name, false)
	if err != nil {
		zl := zap.NewNop()
		return Log{zapr.NewLogger(zl).WithName(name)}
	}
	return l
}

// Discard returns a Log that drops everything, the default ambient logger
// for package entry points that accept an optional Log via functional
// options and get none.
func Discard() Log {
	return Log{logr.Discard()}
}
