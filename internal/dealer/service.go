// Package dealer は販売店レコードの所有者チェック付きCRUDを提供する。
package dealer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/Adiaj449/wiresandnails/internal/model"
	"github.com/Adiaj449/wiresandnails/internal/repository"
)

// 操作ラベル。メトリクスに使用する。
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// 操作結果ラベル。
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// OperationRecorder は販売店操作の結果を記録するインターフェース。
type OperationRecorder interface {
	RecordDealerOperation(op, result string)
}

// TextSanitizer は自由入力の文字列からマークアップを取り除く。
type TextSanitizer interface {
	PlainText(s string) string
}

// Service は販売店に関するビジネスロジックを提供する。
// 全操作は呼び出し元のIdentityを明示的に受け取る。
type Service struct {
	repo      repository.DealerRepository
	validate  *validator.Validate
	sanitizer TextSanitizer
	recorder  OperationRecorder
}

// NewService はServiceを生成する。sanitizerとrecorderはnilでもよい。
// sanitizerがnilの場合、入力は前後の空白除去のみ行う。
func NewService(repo repository.DealerRepository, sanitizer TextSanitizer, recorder OperationRecorder) *Service {
	return &Service{
		repo:      repo,
		validate:  newValidator(),
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// List は呼び出し元が閲覧できる販売店をid降順で返す。
// 管理者は全件（所有者のユーザー名付き）、パートナーは自身の所有分のみ。
func (s *Service) List(ctx context.Context, who model.Identity) ([]*model.Dealer, error) {
	if !who.Authenticated() {
		return nil, model.NewUnauthorizedError()
	}

	var (
		dealers []*model.Dealer
		err     error
	)
	if who.IsAdmin {
		dealers, err = s.repo.ListAll(ctx, model.DealerOrderNewest)
	} else {
		dealers, err = s.repo.ListByOwner(ctx, who.UserID)
	}
	if err != nil {
		s.record(OpList, ResultError)
		return nil, fmt.Errorf("failed to list dealers: %w", err)
	}

	s.record(OpList, ResultSuccess)
	return dealers, nil
}

// ListAll は全販売店を所有者のユーザー名、会社名の順で返す。管理者専用。
func (s *Service) ListAll(ctx context.Context, who model.Identity) ([]*model.Dealer, error) {
	if !who.Authenticated() {
		return nil, model.NewUnauthorizedError()
	}
	if !who.IsAdmin {
		s.record(OpList, ResultRejected)
		return nil, model.NewForbiddenError("Administrator access required.")
	}

	dealers, err := s.repo.ListAll(ctx, model.DealerOrderByOwner)
	if err != nil {
		s.record(OpList, ResultError)
		return nil, fmt.Errorf("failed to list all dealers: %w", err)
	}

	s.record(OpList, ResultSuccess)
	return dealers, nil
}

// Get は指定IDの販売店を返す。
// パートナーが他人の販売店を指定した場合は存在しない場合と同じNotFoundを返す。
func (s *Service) Get(ctx context.Context, who model.Identity, id int64) (*model.Dealer, error) {
	if !who.Authenticated() {
		return nil, model.NewUnauthorizedError()
	}
	if id <= 0 {
		return nil, model.NewBadRequestError("Invalid dealer ID.")
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.record(OpGet, ResultError)
		return nil, fmt.Errorf("failed to find dealer: %w", err)
	}
	if d == nil || (!who.IsAdmin && d.PartnerUserID != who.UserID) {
		s.record(OpGet, ResultRejected)
		return nil, model.NewDealerNotFoundError()
	}

	s.record(OpGet, ResultSuccess)
	return d, nil
}

// Save は販売店を作成または更新する（upsert）。
// 戻り値のboolは新規作成であればtrue。
// 更新はパートナーの場合idと所有者の両方が一致する行に限られ、一致しなければ何も書き込まずForbiddenを返す。
func (s *Service) Save(ctx context.Context, who model.Identity, in SaveInput) (*model.Dealer, bool, error) {
	if !who.Authenticated() {
		return nil, false, model.NewUnauthorizedError()
	}

	op := OpUpdate
	if in.ID == 0 {
		op = OpCreate
	}

	in = in.normalized(s.plainText)
	if err := validateInput(s.validate, in); err != nil {
		s.record(op, ResultRejected)
		return nil, false, err
	}

	if op == OpCreate {
		return s.create(ctx, who, in)
	}
	return s.update(ctx, who, in)
}

func (s *Service) create(ctx context.Context, who model.Identity, in SaveInput) (*model.Dealer, bool, error) {
	d, err := s.repo.Create(ctx, who.UserID, in.attributes())
	if errors.Is(err, repository.ErrOwnerNotFound) {
		s.record(OpCreate, ResultRejected)
		return nil, false, model.NewForbiddenError("Your account is no longer active.")
	}
	if err != nil {
		s.record(OpCreate, ResultError)
		return nil, false, fmt.Errorf("failed to create dealer: %w", err)
	}

	s.record(OpCreate, ResultSuccess)
	slog.Info("dealer created",
		slog.Int64("dealer_id", d.ID),
		slog.Int64("user_id", who.UserID),
	)
	return d, true, nil
}

func (s *Service) update(ctx context.Context, who model.Identity, in SaveInput) (*model.Dealer, bool, error) {
	var (
		d   *model.Dealer
		err error
	)
	if who.IsAdmin {
		d, err = s.repo.UpdateAny(ctx, in.ID, in.attributes())
	} else {
		d, err = s.repo.UpdateOwned(ctx, in.ID, who.UserID, in.attributes())
	}
	if err != nil {
		s.record(OpUpdate, ResultError)
		return nil, false, fmt.Errorf("failed to update dealer: %w", err)
	}

	if d == nil {
		s.record(OpUpdate, ResultRejected)
		slog.Warn("dealer update rejected",
			slog.Int64("dealer_id", in.ID),
			slog.Int64("user_id", who.UserID),
		)
		if who.IsAdmin {
			return nil, false, model.NewDealerNotFoundError()
		}
		return nil, false, model.NewForbiddenError("Access Denied: You can only edit dealers you created.")
	}

	s.record(OpUpdate, ResultSuccess)
	slog.Info("dealer updated",
		slog.Int64("dealer_id", d.ID),
		slog.Int64("user_id", who.UserID),
	)
	return d, false, nil
}

// Delete は販売店を削除する。
// 存在しない場合と他人の所有である場合は同じNotFoundを返す。
func (s *Service) Delete(ctx context.Context, who model.Identity, id int64) error {
	if !who.Authenticated() {
		return model.NewUnauthorizedError()
	}
	if id <= 0 {
		return model.NewBadRequestError("Invalid dealer ID.")
	}

	var (
		deleted bool
		err     error
	)
	if who.IsAdmin {
		deleted, err = s.repo.DeleteAny(ctx, id)
	} else {
		deleted, err = s.repo.DeleteOwned(ctx, id, who.UserID)
	}
	if err != nil {
		s.record(OpDelete, ResultError)
		return fmt.Errorf("failed to delete dealer: %w", err)
	}
	if !deleted {
		s.record(OpDelete, ResultRejected)
		return model.NewDealerNotFoundError()
	}

	s.record(OpDelete, ResultSuccess)
	slog.Info("dealer deleted",
		slog.Int64("dealer_id", id),
		slog.Int64("user_id", who.UserID),
	)
	return nil
}

func (s *Service) plainText(v string) string {
	if s.sanitizer == nil {
		return v
	}
	return s.sanitizer.PlainText(v)
}

func (s *Service) record(op, result string) {
	if s.recorder != nil {
		s.recorder.RecordDealerOperation(op, result)
	}
}
