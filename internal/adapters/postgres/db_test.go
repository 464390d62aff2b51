package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM plans`).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	r := NewTxRunner(mock)
	err = r.InTx(context.Background(), func(ctx context.Context) error {
		// Nested units join the outer transaction.
		return r.InTx(ctx, func(ctx context.Context) error {
			_, err := Conn(ctx, mock).Exec(ctx, `DELETE FROM plans WHERE id = $1`)
			return err
		})
	})
	if err != nil {
		t.Fatalf("InTx() err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := errors.New("boom")
	err = NewTxRunner(mock).InTx(context.Background(), func(ctx context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("InTx() err=%v, want %v", err, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConn_WithoutTxReturnsDB(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	if Conn(context.Background(), mock) != Querier(mock) {
		t.Fatalf("expected the pool itself outside a transaction")
	}
}

func TestMigrate_AppliesSchema(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	if err := Migrate(context.Background(), mock); err != nil {
		t.Fatalf("Migrate() err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if !strings.Contains(Schema(), "plan_shares_plan_invitee_unique") {
		t.Fatalf("schema is missing the share uniqueness constraint")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	err := &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "users_subject_unique"}
	if !IsUniqueViolation(err, "users_subject_unique") || !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation match")
	}
	if IsUniqueViolation(err, "other") {
		t.Fatalf("unexpected match for other constraint")
	}
	if IsUniqueViolation(errors.New("x"), "") {
		t.Fatalf("plain error must not match")
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if _, err := ParseID("plan", "not-a-uuid"); err == nil {
		t.Fatalf("expected error for invalid uuid")
	}
	if _, err := ParseID("plan", "7b0f3a9e-1c2d-4e5f-8a9b-0c1d2e3f4a5b"); err != nil {
		t.Fatalf("ParseID() err=%v", err)
	}
}
