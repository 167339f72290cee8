// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// ErrOwnerNotFound は販売店の所有者として指定したユーザーが存在しない場合に返る。
var ErrOwnerNotFound = errors.New("owner user does not exist")

// UserRepository はユーザーデータ（資格情報ストア）の参照インターフェース。
// ユーザーの作成・更新はシードスクリプトで行うため、このサービスでは読み取りのみ。
type UserRepository interface {
	// FindByUsername はユーザー名の完全一致（大文字小文字を区別）でユーザーを取得する。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。戻った時点でINSERTはコミット済み。
	Create(ctx context.Context, session *model.Session) error
	// Touch は有効なセッションの有効期限をexpiresAtまで延長して返す。
	// 存在しないか期限切れの場合はnilを返す。
	Touch(ctx context.Context, id string, expiresAt time.Time) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// DealerRepository は販売店データの永続化インターフェース。
// 更新・削除の所有者チェックは書き込みと同じSQL文の条件として表現する。
type DealerRepository interface {
	// FindByID は指定IDの販売店を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Dealer, error)

	// ListByOwner は指定ユーザーが所有する販売店をid降順で返す。
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Dealer, error)

	// ListAll は全販売店を所有者のユーザー名付きで返す。
	ListAll(ctx context.Context, order model.DealerOrder) ([]*model.Dealer, error)

	// Create は販売店を作成する。所有者が存在しない場合はErrOwnerNotFoundを返す。
	Create(ctx context.Context, ownerID int64, attrs model.DealerAttributes) (*model.Dealer, error)

	// UpdateOwned はidとownerIDの両方が一致する行だけを更新する。
	// 一致する行がない場合はnilを返し、何も書き込まない。
	UpdateOwned(ctx context.Context, id, ownerID int64, attrs model.DealerAttributes) (*model.Dealer, error)

	// UpdateAny は所有者に関係なく行を更新する（管理者用）。行がない場合はnilを返す。
	UpdateAny(ctx context.Context, id int64, attrs model.DealerAttributes) (*model.Dealer, error)

	// DeleteOwned はidとownerIDの両方が一致する行を削除し、削除したかを返す。
	DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error)

	// DeleteAny は所有者に関係なく行を削除し、削除したかを返す（管理者用）。
	DeleteAny(ctx context.Context, id int64) (bool, error)
}
