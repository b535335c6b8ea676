// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Levels accepted by the handlers, from the most verbose.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Numeric verbosities of the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

var legacyLevels = [...]slog.Level{LevelCrit, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

// FromLegacyLevel maps a numeric verbosity to a level. Out of range values
// clamp to crit or trace.
func FromLegacyLevel(lvl int) slog.Level {
	return legacyLevels[min(max(lvl, 0), len(legacyLevels)-1)]
}

// LevelString names the level in upper case.
func LevelString(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO"
	case l <= LevelWarn:
		return "WARN"
	case l <= LevelError:
		return "ERROR"
	default:
		return "CRIT"
	}
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// NewTerminalHandler writes aligned, optionally colored, lines for humans.
// lvl may be a *slog.LevelVar adjusted at runtime.
//
//	INFO [05-16|20:58:45.123] listing created   assetID=1002 price=1000000
func NewTerminalHandler(wr io.Writer, lvl slog.Leveler, useColor bool) slog.Handler {
	return &levelHandler{lvl, ethlog.NewTerminalHandler(wr, useColor)}
}

// JSONHandler writes one object per record, with "t" and "lvl" keys.
func JSONHandler(wr io.Writer, lvl slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{Level: lvl, ReplaceAttr: replaceAttr})
}

// levelHandler filters records below level before they reach next.
type levelHandler struct {
	level slog.Leveler
	next  slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.next.Enabled(ctx, l)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.level, h.next.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.level, h.next.WithGroup(name)}
}

// replaceAttr shortens the builtin keys and renders amounts and ids as strings.
func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "t"
		return attr
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", strings.ToLower(LevelString(l)))
		}
		return attr
	}

	switch v := attr.Value.Any().(type) {
	case *uint256.Int:
		if v == nil {
			return slog.String(attr.Key, "<nil>")
		}
		return slog.String(attr.Key, v.Dec())
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return slog.String(attr.Key, "<nil>")
		}
		return slog.String(attr.Key, v.String())
	}
	return attr
}
