package logger

import (
	"io"
	"os"
	"path/filepath"

	"account_purge/biz/config"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levels = map[string]hlog.Level{
	"trace":  hlog.LevelTrace,
	"debug":  hlog.LevelDebug,
	"info":   hlog.LevelInfo,
	"notice": hlog.LevelNotice,
	"warn":   hlog.LevelWarn,
	"error":  hlog.LevelError,
	"fatal":  hlog.LevelFatal,
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// newRotator builds the rolling log file from conf, filling unset fields.
func newRotator(conf config.LoggerConf) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(orDefault(conf.Dir, "./log"), orDefault(conf.FileName, "purge.log")),
		MaxSize:    orDefault(conf.MaxSize, 512),
		MaxBackups: orDefault(conf.MaxBackups, 10),
		MaxAge:     orDefault(conf.MaxAge, 14),
		LocalTime:  true,
	}
}

// newOutput copies log lines to stderr so stdout stays free for command
// output such as the audit listing.
func newOutput(conf config.LoggerConf) io.Writer {
	return io.MultiWriter(os.Stderr, newRotator(conf))
}

// newLevel maps the configured level name, defaulting to info.
func newLevel(conf config.LoggerConf) hlog.Level {
	if lvl, ok := levels[conf.Level]; ok {
		return lvl
	}
	return hlog.LevelInfo
}
