package auth

import (
	"context"
	"errors"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/usecase"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

type LoginUsecase struct {
	accounts AccountService
	verifier usecase.PasswordVerifier
	issuer   TokenIssuer
	clock    usecase.Clock
}

func NewLoginUsecase(
	accounts AccountService,
	verifier usecase.PasswordVerifier,
	issuer TokenIssuer,
	clock usecase.Clock,
) *LoginUsecase {
	return &LoginUsecase{
		accounts: accounts,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (TokenPair, error) {
	//usernameでユーザー取得
	account, err := u.accounts.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return TokenPair{}, apperr.InvalidCredentials()
		}
		return TokenPair{}, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, account.PasswordHash); !ok {
		return TokenPair{}, apperr.InvalidCredentials()
	}

	if err := checkCanSignIn(account); err != nil {
		return TokenPair{}, err
	}

	return issuePair(u.issuer, account.Username, u.clock.Now())
}

// Refresh はリフレッシュトークンから新しい組を出す（ローテーションはしない）
func (u *LoginUsecase) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	tok, err := u.issuer.Verify(refreshToken, model.TokenPurposeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	account, err := u.accounts.GetByUsername(ctx, tok.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return TokenPair{}, apperr.InvalidCredentials()
		}
		return TokenPair{}, err
	}

	if err := checkCanSignIn(account); err != nil {
		return TokenPair{}, err
	}

	return issuePair(u.issuer, account.Username, u.clock.Now())
}

// 停止済みはだめ。未認証は管理者以外だめ
func checkCanSignIn(a model.Account) error {
	if !a.IsActive {
		return apperr.Inactive()
	}
	if !a.IsVerified && !a.IsSuperuser {
		return apperr.Unverified()
	}
	return nil
}
