package convert

import (
	"strconv"
	"time"
	"unicode/utf8"

	"account_purge/biz/model/domain"
	"account_purge/biz/model/storage"
)

// UserObjectToDomain converts a raw user hash into a snapshot. A record
// without a username is treated as missing and converts to nil.
func UserObjectToDomain(uid int64, obj map[string]string) *domain.User {
	if len(obj) == 0 || obj["username"] == "" {
		return nil
	}

	u := &domain.User{
		UID:      uid,
		Username: obj["username"],
		UserSlug: obj["userslug"],
		Fields:   obj,
	}
	if v, ok := obj["email"]; ok {
		u.Email = &v
	}
	if v, ok := obj["fullname"]; ok {
		u.Fullname = &v
	}
	if ms, err := strconv.ParseInt(obj["joindate"], 10, 64); err == nil {
		u.JoinDate = time.UnixMilli(ms)
	}
	return u
}

const maxErrMsgLen = 512

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func PurgeAuditDomainToRecord(a *domain.PurgeAudit) *storage.PurgeAuditRecord {
	if a == nil {
		return nil
	}
	errMsg := truncateUTF8(a.Error, maxErrMsgLen)
	return &storage.PurgeAuditRecord{
		PurgeId:    a.PurgeID,
		Uid:        a.UID,
		CallerUid:  a.CallerUID,
		Username:   a.Username,
		Status:     string(a.Status),
		Phase:      a.Phase,
		ErrMsg:     errMsg,
		StartedAt:  a.StartedAt,
		DurationMs: a.Duration.Milliseconds(),
	}
}

func PurgeAuditRecordToDomain(m *storage.PurgeAuditRecord) *domain.PurgeAudit {
	if m == nil {
		return nil
	}
	return &domain.PurgeAudit{
		PurgeID:   m.PurgeId,
		UID:       m.Uid,
		CallerUID: m.CallerUid,
		Username:  m.Username,
		Status:    domain.PurgeStatus(m.Status),
		Phase:     m.Phase,
		Error:     m.ErrMsg,
		StartedAt: m.StartedAt,
		Duration:  time.Duration(m.DurationMs) * time.Millisecond,
	}
}
