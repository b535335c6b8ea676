// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	With(ctx ...any) Logger
}

// WithContext returns a logger that always writes through the current root logger.
// Package level loggers declared before the root is configured pick up the final handler.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root returns the lazily bound root logger.
func Root() Logger {
	return &lazyLogger{}
}

// NewLogger creates a logger bound to the given handler.
func NewLogger(h slog.Handler) Logger {
	return &boundLogger{ethlog.NewLogger(h)}
}

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) bind() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.bind().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.bind().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.bind().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.bind().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.bind().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.bind().Crit(msg, ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

type boundLogger struct {
	l ethlog.Logger
}

func (b *boundLogger) Trace(msg string, ctx ...any) { b.l.Trace(msg, ctx...) }
func (b *boundLogger) Debug(msg string, ctx ...any) { b.l.Debug(msg, ctx...) }
func (b *boundLogger) Info(msg string, ctx ...any)  { b.l.Info(msg, ctx...) }
func (b *boundLogger) Warn(msg string, ctx ...any)  { b.l.Warn(msg, ctx...) }
func (b *boundLogger) Error(msg string, ctx ...any) { b.l.Error(msg, ctx...) }
func (b *boundLogger) Crit(msg string, ctx ...any)  { b.l.Crit(msg, ctx...) }

func (b *boundLogger) With(ctx ...any) Logger {
	return &boundLogger{b.l.With(ctx...)}
}
