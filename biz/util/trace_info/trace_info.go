package trace_info

import (
	"context"
	"strconv"
)

type logIdKey struct{}

type targetUidKey struct{}

// WithLogId tags ctx with the id shared by every log line and audit row of
// one deletion.
func WithLogId(ctx context.Context, logId string) context.Context {
	return context.WithValue(ctx, logIdKey{}, logId)
}

func GetLogId(ctx context.Context) string {
	logId, _ := ctx.Value(logIdKey{}).(string)
	return logId
}

// WithTargetUid records the uid being deleted.
func WithTargetUid(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, targetUidKey{}, uid)
}

func GetTargetUid(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(targetUidKey{}).(int64)
	return uid, ok
}

// Prefix renders the trace values carried in ctx as a log line prefix,
// e.g. "[abc123 uid=42] ". It is empty when ctx carries neither.
func Prefix(ctx context.Context) string {
	logId := GetLogId(ctx)
	uid, ok := GetTargetUid(ctx)
	switch {
	case logId == "" && !ok:
		return ""
	case !ok:
		return "[" + logId + "] "
	case logId == "":
		return "[uid=" + strconv.FormatInt(uid, 10) + "] "
	}
	return "[" + logId + " uid=" + strconv.FormatInt(uid, 10) + "] "
}
