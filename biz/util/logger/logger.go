package logger

import (
	"context"

	"account_purge/biz/config"
	"account_purge/biz/util/trace_info"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func Init() {
	conf := config.GetLoggerConf()
	hlog.SetLogger(&ctxLogger{FullLogger: hlog.DefaultLogger()})
	hlog.SetOutput(newOutput(conf))
	hlog.SetLevel(newLevel(conf))
}

// ctxLogger prefixes every ctx log line with the log id and target uid
// carried in ctx.
type ctxLogger struct {
	hlog.FullLogger
}

func withLogId(ctx context.Context, format string) string {
	return trace_info.Prefix(ctx) + format
}

func (l *ctxLogger) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxTracef(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxDebugf(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxInfof(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxNoticef(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxWarnf(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxErrorf(ctx, withLogId(ctx, format), v...)
}

func (l *ctxLogger) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	l.FullLogger.CtxFatalf(ctx, withLogId(ctx, format), v...)
}
