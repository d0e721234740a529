package result

import (
	"errors"
	"fmt"
	"testing"

	"github.com/garagehub/repair-workflow/internal/domain/domainerr"
)

func TestOk(t *testing.T) {
	r := Ok(42)

	if !r.IsOk() || r.IsFailure() {
		t.Error("Ok result must report success")
	}
	if r.Value() != 42 {
		t.Errorf("Value = %d, want 42", r.Value())
	}
	if r.Err() != nil {
		t.Errorf("Err = %v, want nil", r.Err())
	}
}

func TestFail(t *testing.T) {
	cause := fmt.Errorf("%w: budget b-1", domainerr.ErrNotFound)
	r := Fail[string](cause)

	if r.IsOk() || !r.IsFailure() {
		t.Error("Fail result must report failure")
	}
	if r.Value() != "" {
		t.Errorf("Value = %q, want zero value", r.Value())
	}
	// the error kind stays discoverable through the result
	if !errors.Is(r.Err(), domainerr.ErrNotFound) {
		t.Errorf("Err = %v, want ErrNotFound", r.Err())
	}
}

func TestUnpack(t *testing.T) {
	v, err := Ok("done").Unpack()
	if v != "done" || err != nil {
		t.Errorf("Unpack(Ok) = (%q, %v)", v, err)
	}

	cause := errors.New("boom")
	v, err = Fail[string](cause).Unpack()
	if v != "" || !errors.Is(err, cause) {
		t.Errorf("Unpack(Fail) = (%q, %v)", v, err)
	}
}
