// Package model はドメインモデルを定義する。
package model

import "time"

// User はポータルにログインするユーザーを表す。
// ユーザーはシードスクリプトで作成され、このサービスからは変更・削除しない。
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsPartner    bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// ロールフラグはログイン時点のusersの値をコピーしたもの。
type Session struct {
	ID        string
	UserID    int64
	Username  string
	IsPartner bool
	IsAdmin   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity はリクエストを実行している認証済みユーザーを表す。
// セッションミドルウェアがコンテキストに格納し、ガードとサービスに明示的に渡される。
type Identity struct {
	UserID    int64
	Username  string
	IsPartner bool
	IsAdmin   bool
}

// Identity はセッションから認証済みユーザー情報を取り出す。
func (s *Session) Identity() Identity {
	return Identity{
		UserID:    s.UserID,
		Username:  s.Username,
		IsPartner: s.IsPartner,
		IsAdmin:   s.IsAdmin,
	}
}

// Authenticated はユーザーIDが設定されているかを返す。
func (i Identity) Authenticated() bool {
	return i.UserID > 0
}
