package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 25
	minPasswordLen = 8
	maxPasswordLen = 72 // bcryptの上限（バイト）
)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password1":    {},
	"password123":  {},
	"12345678":     {},
	"123456789":    {},
	"1234567890":   {},
	"123456789012": {},
	"qwertyui":     {},
	"qwertyuiop":   {},
	"iloveyou":     {},
	"letmein1":     {},
	"admin123":     {},
	"sneakers":     {},
}

type CreateAccountInput struct {
	Username string
	Email    string
	Password string
}

// AccountUsecase はアカウントのライフサイクル（作成・認証・資格情報の変更・有効化・削除）
type AccountUsecase struct {
	accounts repo.AccountRepository
	tx       repo.TransactionManager
	hasher   PasswordHasher
	verifier PasswordVerifier
	clock    Clock
}

// DI
func NewAccountUsecase(
	accounts repo.AccountRepository,
	tx repo.TransactionManager,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	clock Clock,
) *AccountUsecase {
	return &AccountUsecase{
		accounts: accounts,
		tx:       tx,
		hasher:   hasher,
		verifier: verifier,
		clock:    clock,
	}
}

// Create はパスワードをハッシュ化して保存する。返す値にハッシュは含めない
func (u *AccountUsecase) Create(ctx context.Context, in CreateAccountInput) (model.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	if err := validateUsername(username); err != nil {
		return model.Account{}, err
	}
	if err := validateEmail(email); err != nil {
		return model.Account{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return model.Account{}, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Account{}, err
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	}
	//重複はDBのunique制約で判定
	if err := u.accounts.Create(ctx, account); err != nil {
		return model.Account{}, storeError("create account", err, nil)
	}

	out := *account
	out.PasswordHash = ""
	return out, nil
}

func (u *AccountUsecase) Get(ctx context.Context, id int64) (model.Account, error) {
	a, err := u.accounts.FindByID(ctx, id)
	if err != nil {
		return model.Account{}, lookupError("get account", "account", err)
	}
	return a, nil
}

func (u *AccountUsecase) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	a, err := u.accounts.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return model.Account{}, lookupError("get account by username", "account", err)
	}
	return a, nil
}

func (u *AccountUsecase) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	a, err := u.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return model.Account{}, lookupError("get account by email", "account", err)
	}
	return a, nil
}

// UpdateEmail はemailを変えて未認証に戻す（同じ1文のUPDATE）
func (u *AccountUsecase) UpdateEmail(ctx context.Context, id int64, email string) (model.Account, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return model.Account{}, err
	}

	a, err := u.accounts.UpdateEmail(ctx, id, email)
	if err != nil {
		return model.Account{}, accountWriteError("update email", err)
	}
	return a, nil
}

func (u *AccountUsecase) UpdateUsername(ctx context.Context, id int64, username string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return model.Account{}, err
	}

	a, err := u.accounts.UpdateUsername(ctx, id, username)
	if err != nil {
		return model.Account{}, accountWriteError("update username", err)
	}
	return a, nil
}

// ChangePassword は今のパスワードを必ず確認する
func (u *AccountUsecase) ChangePassword(ctx context.Context, id int64, current string, next string) error {
	a, err := u.accounts.FindByID(ctx, id)
	if err != nil {
		return lookupError("change password", "account", err)
	}
	if !u.verifier.Verify(current, a.PasswordHash) {
		return apperr.InvalidCredentials()
	}
	return u.setPassword(ctx, id, next)
}

// ResetPassword はトークンで本人確認済みの経路（今のパスワードは聞かない）
func (u *AccountUsecase) ResetPassword(ctx context.Context, id int64, next string) error {
	return u.setPassword(ctx, id, next)
}

func (u *AccountUsecase) setPassword(ctx context.Context, id int64, next string) error {
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hashed, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := u.accounts.UpdatePasswordHash(ctx, id, hashed); err != nil {
		return accountWriteError("update password", err)
	}
	return nil
}

// Verify は1回だけ。認証済みなら AlreadyVerified
func (u *AccountUsecase) Verify(ctx context.Context, id int64) (model.Account, error) {
	a, err := u.accounts.MarkVerified(ctx, id)
	if errors.Is(err, repo.ErrRejected) {
		return model.Account{}, apperr.AlreadyVerified()
	}
	if err != nil {
		return model.Account{}, accountWriteError("verify account", err)
	}
	return a, nil
}

// SetActive は管理者による有効/無効の切り替え（監査ログ付き）
func (u *AccountUsecase) SetActive(ctx context.Context, actorID int64, id int64, active bool) (model.Account, error) {
	var out model.Account

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Accounts().FindByID(ctx, id)
		if err != nil {
			return lookupError("set active", "account", err)
		}

		after, err := r.Accounts().SetActive(ctx, id, active)
		if err != nil {
			return accountWriteError("set active", err)
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actorID, model.AuditActionSetAccountActive, model.AuditResourceAccount, id,
			map[string]any{"is_active": before.IsActive},
			map[string]any{"is_active": after.IsActive},
			u.clock.Now(),
		)); err != nil {
			return storeError("set active audit", err, nil)
		}

		out = after
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return out, nil
}

// 削除（注文もまとめて消える）
func (u *AccountUsecase) Delete(ctx context.Context, id int64) error {
	if err := u.accounts.Delete(ctx, id); err != nil {
		return accountWriteError("delete account", err)
	}
	return nil
}

// AdjustBalance は残高の増減。0未満になるなら InvalidValue
func (u *AccountUsecase) AdjustBalance(ctx context.Context, id int64, delta int64) (model.Account, error) {
	return adjustBalance(ctx, u.accounts, id, delta)
}

func adjustBalance(ctx context.Context, accounts repo.AccountRepository, id int64, delta int64) (model.Account, error) {
	a, err := accounts.IncrementBalance(ctx, id, delta)
	if errors.Is(err, repo.ErrRejected) {
		return model.Account{}, apperr.InvalidValue("balance", "insufficient balance")
	}
	if err != nil {
		return model.Account{}, accountWriteError("adjust balance", err)
	}
	return a, nil
}

func accountWriteError(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("account")
	}
	return storeError(op, err, nil)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return apperr.InvalidValue("username", "must be between 3 and 25 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.InvalidValue("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	//"Name <a@b>" のような形は受けない
	if err != nil || addr.Address != email {
		return apperr.InvalidValue("email", "invalid email format")
	}
	return nil
}

// ValidatePassword は長さと弱いパスワードを見る
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperr.InvalidValue("password", "must be at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return apperr.InvalidValue("password", "must be at most 72 bytes")
	}
	if _, ok := weakPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return apperr.InvalidValue("password", "too weak")
	}
	return nil
}
