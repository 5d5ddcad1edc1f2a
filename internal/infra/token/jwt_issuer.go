package token

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"sneakerhub/internal/config"
	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Purpose model.TokenPurpose `json:"typ"`
	Email   string             `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer は1組の鍵ペアで全用途のトークンを署名・検証する。
type JWTIssuer struct {
	method    jwt.SigningMethod
	signKey   crypto.PrivateKey
	verifyKey crypto.PublicKey
	issuer    string
	ttls      map[model.TokenPurpose]time.Duration
	now       func() time.Time
}

type KeyPair struct {
	Method  jwt.SigningMethod
	Private crypto.PrivateKey
	Public  crypto.PublicKey
}

// DI
func NewJWTIssuer(keys KeyPair, cfg config.TokenConfig, now func() time.Time) *JWTIssuer {
	if now == nil {
		now = time.Now
	}
	return &JWTIssuer{
		method:    keys.Method,
		signKey:   keys.Private,
		verifyKey: keys.Public,
		issuer:    cfg.Issuer,
		ttls: map[model.TokenPurpose]time.Duration{
			model.TokenPurposeAccess:       cfg.AccessTTL,
			model.TokenPurposeRefresh:      cfg.RefreshTTL,
			model.TokenPurposeVerification: cfg.VerificationTTL,
			model.TokenPurposeReset:        cfg.ResetTTL,
		},
		now: now,
	}
}

// Issue は subject（username）に対して用途別のトークンを発行する
func (i *JWTIssuer) Issue(purpose model.TokenPurpose, subject string) (string, time.Time, error) {
	return i.issue(purpose, subject, "")
}

// IssueVerification は認証メール用。宛先のemailをクレームに入れる
func (i *JWTIssuer) IssueVerification(subject, email string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, errors.New("verification token needs an email")
	}
	return i.issue(model.TokenPurposeVerification, subject, email)
}

func (i *JWTIssuer) issue(purpose model.TokenPurpose, subject, email string) (string, time.Time, error) {
	ttl, ok := i.ttls[purpose]
	if !ok || ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("unknown token purpose %q", purpose)
	}

	now := i.now()
	expiresAt := now.Add(ttl)
	c := claims{
		Purpose: purpose,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, c).SignedString(i.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify は期限切れなら TokenExpired、それ以外の不正（署名・形式・用途違い）は InvalidCredentials
func (i *JWTIssuer) Verify(raw string, purpose model.TokenPurpose) (model.ActionToken, error) {
	var c claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return i.verifyKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.ActionToken{}, apperr.TokenExpired()
		}
		return model.ActionToken{}, apperr.InvalidCredentials()
	}

	if c.Purpose != purpose || c.Subject == "" {
		return model.ActionToken{}, apperr.InvalidCredentials()
	}

	out := model.ActionToken{
		ID:      c.ID,
		Subject: c.Subject,
		Purpose: c.Purpose,
		Email:   c.Email,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}

// LoadKeyPair はPEMファイルから鍵を読む。パスが空なら起動ごとの鍵を作る。
func LoadKeyPair(cfg config.TokenConfig) (KeyPair, error) {
	if cfg.PrivateKeyPath == "" {
		return GenerateKeyPair(cfg.Algorithm)
	}

	privPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return KeyPair{}, fmt.Errorf("read private key: %w", err)
	}
	pubPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return KeyPair{}, fmt.Errorf("read public key: %w", err)
	}

	switch cfg.Algorithm {
	case "RS256":
		priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
		if err != nil {
			return KeyPair{}, fmt.Errorf("parse rsa private key: %w", err)
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
		if err != nil {
			return KeyPair{}, fmt.Errorf("parse rsa public key: %w", err)
		}
		return KeyPair{Method: jwt.SigningMethodRS256, Private: priv, Public: pub}, nil
	case "EdDSA":
		priv, err := jwt.ParseEdPrivateKeyFromPEM(privPEM)
		if err != nil {
			return KeyPair{}, fmt.Errorf("parse ed25519 private key: %w", err)
		}
		pub, err := jwt.ParseEdPublicKeyFromPEM(pubPEM)
		if err != nil {
			return KeyPair{}, fmt.Errorf("parse ed25519 public key: %w", err)
		}
		return KeyPair{Method: jwt.SigningMethodEdDSA, Private: priv, Public: pub}, nil
	default:
		return KeyPair{}, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
}

func GenerateKeyPair(algorithm string) (KeyPair, error) {
	switch algorithm {
	case "RS256":
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return KeyPair{}, err
		}
		return KeyPair{Method: jwt.SigningMethodRS256, Private: priv, Public: &priv.PublicKey}, nil
	case "EdDSA", "":
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return KeyPair{}, err
		}
		return KeyPair{Method: jwt.SigningMethodEdDSA, Private: priv, Public: pub}, nil
	default:
		return KeyPair{}, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
}
