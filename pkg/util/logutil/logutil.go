// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"bufio"
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Verbose bool
	// LogFile enables the rotated log file in addition to the console, disabled if empty
	LogFile string
	// Console defaults to stderr
	Console *os.File
}

// Setup configures the default slog logger with the colored console output and optional log file, returned closer
// should be called on exit
func Setup(opts Options) io.Closer {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}

	logConsole := opts.Console
	if logConsole == nil {
		logConsole = os.Stderr
	}

	handlers := []slog.Handler{
		tint.NewHandler(logConsole, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
			NoColor:    !isatty.IsTerminal(logConsole.Fd()),
		}),
	}

	var closer io.Closer = io.NopCloser(nil)
	if opts.LogFile != "" {
		logFile := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    5, // MB
			MaxBackups: 4,
			MaxAge:     30, // days
			Compress:   true,
			FileMode:   0o644,
		}
		closer = logFile

		handlers = append(handlers, slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))

	return closer
}

// NewSink returns writer logging every written line with the given level and attrs until ctx is done
func NewSink(ctx context.Context, level slog.Level, msgPrefix string, args ...any) io.Writer {
	r, w := io.Pipe()

	go func() {
		lines := make(chan string)
		defer close(lines)

		go func() {
			defer func() {
				recover() //nolint: errcheck
			}()

			s := bufio.NewScanner(r)
			for s.Scan() {
				lines <- s.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				_ = r.Close()

				return
			case line := <-lines:
				slog.Log(ctx, level, msgPrefix+strings.TrimSpace(line), args...)
			}
		}
	}()

	return w
}

// NewStdLogger returns standard library logger forwarding into slog, e.g. for http.Server.ErrorLog
func NewStdLogger(ctx context.Context, level slog.Level, msgPrefix string, args ...any) *log.Logger {
	return log.New(NewSink(ctx, level, msgPrefix, args...), "", 0)
}
