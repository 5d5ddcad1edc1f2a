package auth

import (
	"context"
	"time"

	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/usecase"
)

// トークンを発行・検証する約束
type TokenIssuer interface {
	Issue(purpose model.TokenPurpose, subject string) (token string, expiresAt time.Time, err error)
	IssueVerification(subject, email string) (token string, expiresAt time.Time, err error)
	Verify(raw string, purpose model.TokenPurpose) (model.ActionToken, error)
}

// 使い切りトークンの記録。初回だけ true
type UsedTokenStore interface {
	MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// auth が使うアカウント操作
type AccountService interface {
	Create(ctx context.Context, in usecase.CreateAccountInput) (model.Account, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	Verify(ctx context.Context, id int64) (model.Account, error)
	ResetPassword(ctx context.Context, id int64, next string) error
}

// handlerがJSONにして返す
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func issuePair(issuer TokenIssuer, username string, now time.Time) (TokenPair, error) {
	access, accessExp, err := issuer.Issue(model.TokenPurposeAccess, username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := issuer.Issue(model.TokenPurposeRefresh, username)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
	}, nil
}
