// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the process-wide structured logger.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the structured logger handed out to packages.
type Logger = zerolog.Logger

var (
	mu   sync.RWMutex
	root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
)

// WithContext returns a logger carrying the given key/value context pairs.
// Keys without a matching value are dropped.
func WithContext(keyValues ...string) Logger {
	mu.RLock()
	defer mu.RUnlock()

	ctx := root.With()
	for i := 0; i+1 < len(keyValues); i += 2 {
		ctx = ctx.Str(keyValues[i], keyValues[i+1])
	}
	return ctx.Logger()
}

// SetOutput redirects all loggers created afterwards to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

// SetLevel adjusts the level of loggers created afterwards.
// Unknown level strings leave the level unchanged.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(lvl)
}
