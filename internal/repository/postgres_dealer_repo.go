package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// pgForeignKeyViolation はPostgreSQLの外部キー制約違反のSQLSTATE。
const pgForeignKeyViolation = "23503"

const dealerColumns = `id, partner_user_id, company_name, contact_person, phone_number, gstin_number, address, created_at, updated_at`

// PostgresDealerRepo はPostgreSQLを使用した販売店リポジトリ。
type PostgresDealerRepo struct {
	db *sql.DB
}

// NewPostgresDealerRepo はPostgresDealerRepoを生成する。
func NewPostgresDealerRepo(db *sql.DB) *PostgresDealerRepo {
	return &PostgresDealerRepo{db: db}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDealer(s rowScanner) (*model.Dealer, error) {
	d := &model.Dealer{}
	err := s.Scan(&d.ID, &d.PartnerUserID, &d.CompanyName, &d.ContactPerson, &d.PhoneNumber,
		&d.GSTINNumber, &d.Address, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FindByID は指定IDの販売店を取得する。見つからない場合はnilを返す。
func (r *PostgresDealerRepo) FindByID(ctx context.Context, id int64) (*model.Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx,
		`SELECT `+dealerColumns+` FROM dealer_network WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("販売店の取得に失敗しました: %w", err)
	}
	return d, nil
}

// ListByOwner は指定ユーザーが所有する販売店をid降順で返す。
func (r *PostgresDealerRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Dealer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dealerColumns+`
		 FROM dealer_network
		 WHERE partner_user_id = $1
		 ORDER BY id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("販売店一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	dealers := []*model.Dealer{}
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, fmt.Errorf("販売店行の読み取りに失敗しました: %w", err)
		}
		dealers = append(dealers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("販売店一覧の走査に失敗しました: %w", err)
	}
	return dealers, nil
}

// ListAll は全販売店をusersとJOINし、所有者のユーザー名付きで返す。
func (r *PostgresDealerRepo) ListAll(ctx context.Context, order model.DealerOrder) ([]*model.Dealer, error) {
	orderBy := "d.id DESC"
	if order == model.DealerOrderByOwner {
		orderBy = "u.username ASC, d.company_name ASC, d.id ASC"
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.partner_user_id, d.company_name, d.contact_person, d.phone_number,
		        d.gstin_number, d.address, d.created_at, d.updated_at, u.username
		 FROM dealer_network d
		 JOIN users u ON d.partner_user_id = u.id
		 ORDER BY `+orderBy,
	)
	if err != nil {
		return nil, fmt.Errorf("全販売店一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	dealers := []*model.Dealer{}
	for rows.Next() {
		d := &model.Dealer{}
		if err := rows.Scan(&d.ID, &d.PartnerUserID, &d.CompanyName, &d.ContactPerson, &d.PhoneNumber,
			&d.GSTINNumber, &d.Address, &d.CreatedAt, &d.UpdatedAt, &d.PartnerUsername); err != nil {
			return nil, fmt.Errorf("販売店行の読み取りに失敗しました: %w", err)
		}
		dealers = append(dealers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("全販売店一覧の走査に失敗しました: %w", err)
	}
	return dealers, nil
}

// Create は販売店を作成し、採番されたIDを含む行を返す。
func (r *PostgresDealerRepo) Create(ctx context.Context, ownerID int64, attrs model.DealerAttributes) (*model.Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx,
		`INSERT INTO dealer_network (partner_user_id, company_name, contact_person, phone_number, gstin_number, address)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+dealerColumns,
		ownerID, attrs.CompanyName, attrs.ContactPerson, attrs.PhoneNumber, attrs.GSTINNumber, attrs.Address,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("販売店の作成に失敗しました: %w", err)
	}
	return d, nil
}

// UpdateOwned はidと所有者が一致する行の業務属性を更新する。
// 所有者の確認と更新を1文で行い、確認から書き込みまでの間に所有者が変わる余地を残さない。
func (r *PostgresDealerRepo) UpdateOwned(ctx context.Context, id, ownerID int64, attrs model.DealerAttributes) (*model.Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx,
		`UPDATE dealer_network
		 SET company_name = $3, contact_person = $4, phone_number = $5,
		     gstin_number = $6, address = $7, updated_at = now()
		 WHERE id = $1 AND partner_user_id = $2
		 RETURNING `+dealerColumns,
		id, ownerID, attrs.CompanyName, attrs.ContactPerson, attrs.PhoneNumber, attrs.GSTINNumber, attrs.Address,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("販売店の更新に失敗しました: %w", err)
	}
	return d, nil
}

// UpdateAny は所有者を問わず行の業務属性を更新する。
func (r *PostgresDealerRepo) UpdateAny(ctx context.Context, id int64, attrs model.DealerAttributes) (*model.Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx,
		`UPDATE dealer_network
		 SET company_name = $2, contact_person = $3, phone_number = $4,
		     gstin_number = $5, address = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+dealerColumns,
		id, attrs.CompanyName, attrs.ContactPerson, attrs.PhoneNumber, attrs.GSTINNumber, attrs.Address,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("販売店の更新に失敗しました: %w", err)
	}
	return d, nil
}

// DeleteOwned はidと所有者が一致する行を削除する。
func (r *PostgresDealerRepo) DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error) {
	return r.execDelete(ctx,
		`DELETE FROM dealer_network WHERE id = $1 AND partner_user_id = $2`,
		id, ownerID,
	)
}

// DeleteAny は所有者を問わず行を削除する。
func (r *PostgresDealerRepo) DeleteAny(ctx context.Context, id int64) (bool, error) {
	return r.execDelete(ctx,
		`DELETE FROM dealer_network WHERE id = $1`,
		id,
	)
}

func (r *PostgresDealerRepo) execDelete(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("販売店の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ DealerRepository = (*PostgresDealerRepo)(nil)
