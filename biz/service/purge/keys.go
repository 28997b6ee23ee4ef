package purge

import (
	"fmt"
	"strconv"
)

const (
	keyGlobal        = "global"
	keyPostQueue     = "post:queue"
	keyPublicRooms   = "chat:rooms:public"
	keyInvitationUID = "invitation:uids"
)

// globalUserSets are the leaderboards and membership sets every account sits in.
var globalUserSets = []string{
	"users:joindate",
	"users:postcount",
	"users:reputation",
	"users:banned",
	"users:banned:expire",
	"users:flags",
	"users:online",
	"digest:day:uids",
	"digest:week:uids",
	"digest:biweek:uids",
	"digest:month:uids",
}

func uidStr(uid int64) string {
	return strconv.FormatInt(uid, 10)
}

func userKey(uid int64) string {
	return fmt.Sprintf("user:%d", uid)
}

func uidKey(uid int64, suffix string) string {
	return fmt.Sprintf("uid:%d:%s", uid, suffix)
}

func followersKey(uid string) string {
	return "followers:" + uid
}

func followingKey(uid string) string {
	return "following:" + uid
}

func queueKey(id string) string {
	return "post:queue:" + id
}

// accountKeys are the per-user keys dropped in one batch once the user's
// relations have been detached.
func accountKeys(uid int64) []string {
	return []string{
		uidKey(uid, "notifications:read"),
		uidKey(uid, "notifications:unread"),
		uidKey(uid, "bookmarks"),
		uidKey(uid, "tids_read"),
		uidKey(uid, "tids_unread"),
		uidKey(uid, "blocked_uids"),
		fmt.Sprintf("user:%d:settings", uid),
		fmt.Sprintf("user:%d:usernames", uid),
		fmt.Sprintf("user:%d:emails", uid),
		uidKey(uid, "topics"),
		uidKey(uid, "posts"),
		uidKey(uid, "chats"),
		uidKey(uid, "chats:unread"),
		uidKey(uid, "chat:rooms"),
		uidKey(uid, "chat:rooms:unread"),
		uidKey(uid, "chat:rooms:read"),
		uidKey(uid, "upvote"),
		uidKey(uid, "downvote"),
		uidKey(uid, "flag:pids"),
		uidKey(uid, "sessions"),
		uidKey(uid, "sessionUUID:sessionId"),
		fmt.Sprintf("invitation:uid:%d", uid),
	}
}

// finalKeys are read by the relation cleanups and go last.
func finalKeys(uid int64) []string {
	return []string{
		followersKey(uidStr(uid)),
		followingKey(uidStr(uid)),
		userKey(uid),
		uidKey(uid, "followed_tags"),
		uidKey(uid, "followed_tids"),
		uidKey(uid, "ignored_tids"),
	}
}

func profileMediaPatterns(uid int64) []string {
	return []string{
		fmt.Sprintf("%d-profileavatar*", uid),
		fmt.Sprintf("%d-profilecover*", uid),
	}
}
