package auth

import (
	"context"
	"errors"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
)

type EmailVerificationUsecase struct {
	accounts AccountService
	issuer   TokenIssuer
	mailer   *Mailer
}

func NewEmailVerificationUsecase(accounts AccountService, issuer TokenIssuer, mailer *Mailer) *EmailVerificationUsecase {
	return &EmailVerificationUsecase{accounts: accounts, issuer: issuer, mailer: mailer}
}

// Verify はメールのリンク（トークン）からアカウントを認証済みにする
func (u *EmailVerificationUsecase) Verify(ctx context.Context, token string) (model.Account, error) {
	tok, err := u.issuer.Verify(token, model.TokenPurposeVerification)
	if err != nil {
		return model.Account{}, err
	}

	account, err := u.accounts.GetByUsername(ctx, tok.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return model.Account{}, apperr.InvalidCredentials()
		}
		return model.Account{}, err
	}
	//emailを変えた後は前の宛先のトークンは使えない
	if tok.Email == "" || tok.Email != account.Email {
		return model.Account{}, apperr.InvalidCredentials()
	}

	return u.accounts.Verify(ctx, account.ID)
}

// Send は今のemail宛に認証メールを依頼する（登録時・email変更後）
func (u *EmailVerificationUsecase) Send(ctx context.Context, a model.Account) error {
	token, _, err := u.issuer.IssueVerification(a.Username, a.Email)
	if err != nil {
		return err
	}
	u.mailer.SendVerification(ctx, a, token)
	return nil
}

// Resend は未認証のときだけ
func (u *EmailVerificationUsecase) Resend(ctx context.Context, a model.Account) error {
	if a.IsVerified {
		return apperr.AlreadyVerified()
	}
	return u.Send(ctx, a)
}
