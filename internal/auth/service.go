// Package auth はパスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adiaj449/wiresandnails/internal/model"
	"github.com/Adiaj449/wiresandnails/internal/repository"
)

// ログイン結果のラベル。メトリクスに使用する。
const (
	LoginResultSuccess    = "success"
	LoginResultInvalid    = "invalid_credentials"
	LoginResultBadRequest = "bad_request"
	LoginResultError      = "error"
)

// LoginRecorder はログイン結果を記録するインターフェース。
type LoginRecorder interface {
	RecordLogin(result string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionTTL time.Duration // セッション有効期間
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	recorder    LoginRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	recorder LoginRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		recorder:    recorder,
		config:      config,
	}
}

// Login はユーザー名とパスワードを検証し、セッションを発行する。
// ユーザー不在とパスワード不一致は同じInvalidCredentialsエラーを返す。
// セッションのINSERTが完了してから戻るため、呼び出し元が成功を返した時点でセッションは参照可能。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		s.record(LoginResultBadRequest)
		return nil, model.NewBadRequestError("Username and password are required.")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.record(LoginResultError)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		burnPasswordCheck(password)
		s.record(LoginResultInvalid)
		slog.Warn("login failed", slog.String("reason", "unknown user"))
		return nil, model.NewInvalidCredentialsError()
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		s.record(LoginResultInvalid)
		slog.Warn("login failed",
			slog.String("reason", "password mismatch"),
			slog.Int64("user_id", user.ID),
		)
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		s.record(LoginResultError)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.record(LoginResultSuccess)
	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// createSession はユーザーのロールフラグをコピーしたセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, user *model.User) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Username:  user.Username,
		IsPartner: user.IsPartner,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: now.Add(s.config.SessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

func (s *Service) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(result)
	}
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
