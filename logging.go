// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logging surface the runtime calls into for
// scheduler/worker/timer/cancellation state transitions. The default
// implementation wraps a logiface.Logger[*stumpy.Event].
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, err error, fields map[string]any)
}

// logifaceLogger adapts a logiface.Logger[*stumpy.Event] to Logger.
type logifaceLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

// NewLogifaceLogger constructs the default Logger backend: a
// logiface.Logger using stumpy's zero-allocation JSON event encoder,
// writing to w (os.Stderr if nil).
func NewLogifaceLogger(w *os.File) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
	)
	return &logifaceLogger{l: l}
}

func applyFields(b *logiface.Builder[*stumpy.Event], fields map[string]any) *logiface.Builder[*stumpy.Event] {
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			b = b.Str(k, val)
		case int:
			b = b.Int(k, val)
		case int64:
			b = b.Int64(k, val)
		case bool:
			b = b.Bool(k, val)
		case float64:
			b = b.Float64(k, val)
		default:
			b = b.Interface(k, val)
		}
	}
	return b
}

func (g *logifaceLogger) Debug(msg string, fields map[string]any) {
	if b := g.l.Debug(); b != nil {
		applyFields(b, fields).Log(msg)
	}
}

func (g *logifaceLogger) Info(msg string, fields map[string]any) {
	if b := g.l.Info(); b != nil {
		applyFields(b, fields).Log(msg)
	}
}

func (g *logifaceLogger) Warn(msg string, fields map[string]any) {
	if b := g.l.Warning(); b != nil {
		applyFields(b, fields).Log(msg)
	}
}

func (g *logifaceLogger) Error(msg string, err error, fields map[string]any) {
	if b := g.l.Err(); b != nil {
		if err != nil {
			b = b.Err(err)
		}
		applyFields(b, fields).Log(msg)
	}
}

// noopLogger discards everything. New replaces a nil Logger with the
// default logger, not with noopLogger.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any)        {}
func (noopLogger) Info(string, map[string]any)         {}
func (noopLogger) Warn(string, map[string]any)         {}
func (noopLogger) Error(string, error, map[string]any) {}

var defaultLoggerOnce sync.Once
var defaultLoggerInst Logger

func defaultLogger() Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerInst = NewLogifaceLogger(os.Stderr)
	})
	return defaultLoggerInst
}
