package auth

import (
	"context"
	"errors"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
)

// AccessGuard はBearerトークンから操作主体（principal）を解決する
type AccessGuard struct {
	accounts AccountService
	issuer   TokenIssuer
}

func NewAccessGuard(accounts AccountService, issuer TokenIssuer) *AccessGuard {
	return &AccessGuard{accounts: accounts, issuer: issuer}
}

// Resolve はアクセストークンを検証して、有効なアカウントを返す
func (g *AccessGuard) Resolve(ctx context.Context, raw string) (model.Account, error) {
	tok, err := g.issuer.Verify(raw, model.TokenPurposeAccess)
	if err != nil {
		return model.Account{}, err
	}

	account, err := g.accounts.GetByUsername(ctx, tok.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return model.Account{}, apperr.InvalidCredentials()
		}
		return model.Account{}, err
	}
	if !account.IsActive {
		return model.Account{}, apperr.Inactive()
	}
	return account, nil
}

// 管理者は未認証でも通す
func (g *AccessGuard) RequireVerified(p model.Account) error {
	if !p.IsVerified && !p.IsSuperuser {
		return apperr.Unverified()
	}
	return nil
}

func (g *AccessGuard) RequireSuperuser(p model.Account) error {
	if !p.IsSuperuser {
		return apperr.InsufficientPermissions()
	}
	return nil
}
