package repository

import (
	"errors"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"

	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"
)

// PostgreSQL SQLSTATE
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// SQLite 拡張リザルトコード
const (
	sqliteConstraint           = 19
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// SQLiteのUNIQUE違反は列の一覧しか返さないので、制約名に引き直す
var sqliteUniqueColumns = map[string]string{
	"accounts.username":                               model.ConstraintAccountsUsername,
	"accounts.email":                                  model.ConstraintAccountsEmail,
	"catalog_models.name":                             model.ConstraintCatalogModelsName,
	"catalog_variants.model_id, catalog_variants.size": model.ConstraintVariantsModelSize,
}

// classifyError は制約違反なら *repo.ConstraintViolation に包む。それ以外はそのまま返す。
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if v := violationOf(err); v != nil {
		return v
	}
	return err
}

func violationOf(err error) *repo.ConstraintViolation {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		var kind repo.ViolationKind
		switch pgErr.Code {
		case pgUniqueViolation:
			kind = repo.ViolationUnique
		case pgForeignKeyViolation:
			kind = repo.ViolationForeignKey
		case pgCheckViolation:
			kind = repo.ViolationCheck
		case pgNotNullViolation:
			return &repo.ConstraintViolation{Kind: repo.ViolationNotNull, Constraint: pgErr.ColumnName, Err: err}
		default:
			return nil
		}
		return &repo.ConstraintViolation{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
	}

	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code&0xFF != sqliteConstraint {
			return nil
		}
		detail := sqliteConstraintDetail(sqliteErr.Error())
		switch code {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return &repo.ConstraintViolation{Kind: repo.ViolationUnique, Constraint: sqliteUniqueColumns[detail], Err: err}
		case sqliteConstraintCheck:
			return &repo.ConstraintViolation{Kind: repo.ViolationCheck, Constraint: detail, Err: err}
		case sqliteConstraintForeignKey:
			//SQLiteは違反した外部キーを特定しない
			return &repo.ConstraintViolation{Kind: repo.ViolationForeignKey, Err: err}
		case sqliteConstraintNotNull:
			return &repo.ConstraintViolation{Kind: repo.ViolationNotNull, Constraint: detail, Err: err}
		}
	}
	return nil
}

// "UNIQUE constraint failed: accounts.email (2067)" -> "accounts.email"
func sqliteConstraintDetail(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	detail := msg[i+len(marker):]
	if j := strings.LastIndex(detail, " ("); j >= 0 && strings.HasSuffix(detail, ")") {
		detail = detail[:j]
	}
	return strings.TrimSpace(detail)
}
