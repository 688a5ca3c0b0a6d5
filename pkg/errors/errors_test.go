package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "save profile")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if typed := As(wrapped); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected dependency code through wrapping, got %v", typed)
	}
	if !IsCode(wrapped, CodeDependency) {
		t.Fatal("IsCode should see through wrapping")
	}
	if IsCode(cause, CodeDependency) {
		t.Fatal("plain errors carry no code")
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal {
		t.Fatalf("nil error should report internal code")
	}
	if e.Message() != "" || e.Details() != nil || e.Error() != "" {
		t.Fatal("nil error accessors should be empty")
	}
}

func TestDumpCollectsChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "merchants_email_key", TableName: "merchants"}
	err := Wrap(CodeConflict, pgErr, "create merchant")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
	if d.PGCode != "23505" || d.PGConstraint != "merchants_email_key" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if _, ok := d.Fields()["pg_code"]; !ok {
		t.Fatal("expected pg fields in log fields")
	}
}
