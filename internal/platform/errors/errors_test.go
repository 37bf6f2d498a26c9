package errors

import (
	"encoding/json"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFoundf("report"), http.StatusNotFound},
		{InvalidArgf("from must be before to"), http.StatusUnprocessableEntity},
		{New(ErrorCodeValidation, "languages[0] must be a BCP 47 tag"), http.StatusBadRequest},
		{JSONErrf("unexpected EOF"), http.StatusBadRequest},
		{Unauthorizedf("missing bearer token"), http.StatusUnauthorized},
		{New(ErrorCodeForbidden, "no"), http.StatusForbidden},
		{New(ErrorCodeConflict, "lease"), http.StatusConflict},
		{New(ErrorCodeDuplicateKey, "dup"), http.StatusConflict},
		{New(ErrorCodeTooManyRequests, "slow"), http.StatusTooManyRequests},
		{Unavailablef("clickhouse down"), http.StatusServiceUnavailable},
		{New(ErrorCodeDB, "db"), http.StatusInternalServerError},
		{PanicErrf("boom"), http.StatusInternalServerError},
		{Internalf("%d invariant breaks", 1), http.StatusInternalServerError},
		{stderrs.New("foreign"), http.StatusInternalServerError},
		{New(ErrorCode(9999), "future"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("%v: status = %d want %d", tc.err, got, tc.want)
		}
	}
}

func TestError_WrapAndUnwrap(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("connection refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "list %s", "approvals")
	if err.Error() != "list approvals: connection refused" {
		t.Fatalf("message = %q", err.Error())
	}
	if !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("cause lost")
	}

	// an outer fmt wrap keeps the code reachable
	outer := fmt.Errorf("compute: %w", err)
	if CodeOf(outer) != ErrorCodeUnavailable || !IsCode(outer, ErrorCodeUnavailable) {
		t.Fatalf("code = %v", CodeOf(outer))
	}
	if e, ok := As(outer); !ok || e.Code() != ErrorCodeUnavailable {
		t.Fatalf("As = %v %v", e, ok)
	}
	if CodeOf(cause) != ErrorCodeUnknown {
		t.Fatalf("foreign code = %v", CodeOf(cause))
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
}

func TestWithField_CopiesOnWrite(t *testing.T) {
	base := InvalidArgf("rate must not be negative")
	tagged := WithField(base, "rate_translated")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("base mutated: %q", e.Field())
	}
	if e, _ := As(tagged); e.Field() != "rate_translated" || e.Code() != ErrorCodeInvalidArgument {
		t.Fatalf("tagged = %+v", e.ToWire())
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign {
		t.Fatalf("foreign error should pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}

	w := WireFrom(fmt.Errorf("handler: %w", WithField(New(ErrorCodeValidation, "bad tag"), "languages[1]")))
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := fmt.Sprintf(`{"code":%d,"message":"bad tag","field":"languages[1]"}`, ErrorCodeValidation)
	if string(b) != want {
		t.Fatalf("wire = %s want %s", b, want)
	}

	if w := WireFrom(stderrs.New("raw")); w.Code != ErrorCodeUnknown || w.Message != "raw" || w.Field != "" {
		t.Fatalf("foreign wire = %+v", w)
	}
}

func TestErrNotFound_IsComparable(t *testing.T) {
	err := fmt.Errorf("one row: %w", ErrNotFound)
	if !stderrs.Is(err, ErrNotFound) || !IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound not matched through wrap")
	}
}
