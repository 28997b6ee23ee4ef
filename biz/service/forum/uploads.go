package forum

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"account_purge/biz/dal/objstore"
	"account_purge/biz/dal/store"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Uploads removes uploaded files from object storage and their bookkeeping.
type Uploads struct {
	store   store.Store
	objects objstore.ObjectStorage
}

func NewUploads(s store.Store, objects objstore.ObjectStorage) *Uploads {
	return &Uploads{store: s, objects: objects}
}

func (u *Uploads) Delete(ctx context.Context, callerUID, uid int64, names []string) error {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if err := u.objects.Delete(ctx, name); err != nil {
			return err
		}
		keys = append(keys, uploadKey(name))
	}
	if err := u.store.SortedRemove(ctx, "uid:"+strconv.FormatInt(uid, 10)+":uploads", names...); err != nil {
		return err
	}
	if err := u.store.DeleteAll(ctx, keys...); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "deleted uploads, uid: %d, caller: %d, count: %d", uid, callerUID, len(names))
	return nil
}

func uploadKey(name string) string {
	sum := md5.Sum([]byte(name))
	return "upload:" + hex.EncodeToString(sum[:])
}
