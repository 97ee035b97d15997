package utils

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// ChannelWriter lets zerolog feed the terminal dashboard instead of stdout,
// one JSON line per message.
type ChannelWriter struct {
	Channel chan string
}

func (cw ChannelWriter) Write(p []byte) (n int, err error) {
	cw.Channel <- string(p)
	return len(p), nil
}

var OutputChannel = make(chan string, 1024)

func ConsoleInit(name string, termUi *bool) (zerolog.Logger, chan string) {
	flag.Parse()
	logsInit(termUi)

	if name != "" {
		if *termUi {
			return zerolog.New(ChannelWriter{Channel: OutputChannel}).With().Str("app", name).Logger(), OutputChannel
		} else {
			return zlog.With().Str("app", name).Logger(), OutputChannel
		}
	} else {
		if *termUi {
			return zerolog.New(ChannelWriter{Channel: OutputChannel}), OutputChannel
		} else {
			return zlog.Logger, OutputChannel
		}
	}
}

func logsInit(termUi *bool) {
	if *termUi {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zlog.Logger = zlog.
			Output(ChannelWriter{Channel: OutputChannel}).
			Hook(LineInfoHook{})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zlog.Logger = zlog.
			Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "02/01 15:04:05"}).
			Hook(LineInfoHook{})
	}
}

type LineInfoHook struct{}

func (h LineInfoHook) Run(e *zerolog.Event, l zerolog.Level, msg string) {
	if l >= zerolog.InfoLevel {
		_, file, line, ok := runtime.Caller(3)
		if ok {
			if idx := strings.Index(file, "vector-os/"); idx >= 0 {
				file = file[idx+10:]
			}
			e.Str("line", fmt.Sprintf("%s:%d", file, line))
		}
	}
}
