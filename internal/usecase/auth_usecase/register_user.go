package auth

import (
	"context"

	"sneakerhub/internal/usecase"
)

// 会員登録の出力
type RegisterUserOutput struct {
	UserID int64 `json:"user_id"`
}

// RegisterUserUsecaseは会員登録の処理。作成後に認証メールを依頼する
type RegisterUserUsecase struct {
	accounts AccountService
	issuer   TokenIssuer
	mailer   *Mailer
}

// DI
func NewRegisterUserUsecase(accounts AccountService, issuer TokenIssuer, mailer *Mailer) *RegisterUserUsecase {
	return &RegisterUserUsecase{accounts: accounts, issuer: issuer, mailer: mailer}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in usecase.CreateAccountInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	account, err := u.accounts.Create(ctx, in)
	if err != nil {
		return out, err
	}

	token, _, err := u.issuer.IssueVerification(account.Username, account.Email)
	if err != nil {
		return out, err
	}
	u.mailer.SendVerification(ctx, account, token)

	out.UserID = account.ID
	return out, nil
}
