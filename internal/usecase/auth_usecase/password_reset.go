package auth

import (
	"context"
	"errors"
	"time"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/usecase"
)

type PasswordResetUsecase struct {
	accounts AccountService
	issuer   TokenIssuer
	used     UsedTokenStore
	mailer   *Mailer
	clock    usecase.Clock
}

func NewPasswordResetUsecase(
	accounts AccountService,
	issuer TokenIssuer,
	used UsedTokenStore,
	mailer *Mailer,
	clock usecase.Clock,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{accounts: accounts, issuer: issuer, used: used, mailer: mailer, clock: clock}
}

// Request はemailのアカウントにリセット用のリンクを送る
func (u *PasswordResetUsecase) Request(ctx context.Context, email string) error {
	account, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !account.IsVerified {
		return apperr.Unverified()
	}

	token, _, err := u.issuer.Issue(model.TokenPurposeReset, account.Username)
	if err != nil {
		return err
	}
	u.mailer.SendPasswordReset(ctx, account, token)
	return nil
}

// Redeem はトークンで本人確認してパスワードを変える。トークンは1回だけ使える
func (u *PasswordResetUsecase) Redeem(ctx context.Context, token string, newPassword string) error {
	tok, err := u.issuer.Verify(token, model.TokenPurposeReset)
	if err != nil {
		return err
	}

	account, err := u.accounts.GetByUsername(ctx, tok.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.InvalidCredentials()
		}
		return err
	}
	if !account.IsVerified {
		return apperr.Unverified()
	}

	//トークンを消費する前に入力を見る
	if err := usecase.ValidatePassword(newPassword); err != nil {
		return err
	}

	ttl := tok.ExpiresAt.Sub(u.clock.Now())
	if ttl < time.Second {
		ttl = time.Second
	}
	first, err := u.used.MarkUsed(ctx, tok.ID, ttl)
	if err != nil {
		return err
	}
	if !first {
		return apperr.InvalidCredentials()
	}

	return u.accounts.ResetPassword(ctx, account.ID, newPassword)
}
