package model

import "time"

// Dealer はパートナーが管理する販売店レコードを表す。
// PartnerUserIDは作成時に設定され、以後変更されない。
type Dealer struct {
	ID              int64
	PartnerUserID   int64
	PartnerUsername string // 管理者向け一覧でのみ設定される
	CompanyName     string
	ContactPerson   string
	PhoneNumber     string
	GSTINNumber     string
	Address         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DealerAttributes は販売店の業務属性。更新で変更できるのはこれとupdated_atのみ。
type DealerAttributes struct {
	CompanyName   string
	ContactPerson string
	PhoneNumber   string
	GSTINNumber   string
	Address       string
}

// DealerOrder は管理者向け全件一覧の並び順。
type DealerOrder int

const (
	// DealerOrderNewest はid降順（作成の新しい順）。
	DealerOrderNewest DealerOrder = iota
	// DealerOrderByOwner は所有者のユーザー名、会社名の順。
	DealerOrderByOwner
)
