package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestQueryErrorClassification(t *testing.T) {
	cause := errors.New("read /proc/cpuinfo: permission denied")
	err := unavailable("cpu architecture", cause)

	if !errors.Is(err, ErrUnavailable) {
		t.Error("Expected errors.Is(err, ErrUnavailable) to be true")
	}
	if errors.Is(err, ErrUnrecognized) {
		t.Error("Unavailable error must not match ErrUnrecognized")
	}
	if !errors.Is(err, cause) {
		t.Error("Original cause must remain reachable through the chain")
	}

	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatal("Expected errors.As to extract *QueryError")
	}
	if qe.Op != "cpu architecture" {
		t.Errorf("Op = %q, want %q", qe.Op, "cpu architecture")
	}
}

func TestQueryErrorUnrecognized(t *testing.T) {
	err := unrecognizedf("cpu cores", "no per-cpu lines in stat")

	if !errors.Is(err, ErrUnrecognized) {
		t.Error("Expected errors.Is(err, ErrUnrecognized) to be true")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("Unrecognized error must not match ErrUnavailable")
	}
}

func TestQueryErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  unavailable("memory total", errors.New("sysinfo failed")),
			want: "memory total: platform source unavailable: sysinfo failed",
		},
		{
			name: "without cause",
			err:  unavailable("current thread id", nil),
			want: "current thread id: platform source unavailable",
		},
		{
			name: "formatted cause",
			err:  unrecognizedf("cpu clock speed", "no cpu MHz field among %d cpuinfo entries", 4),
			want: "cpu clock speed: platform data unrecognized: no cpu MHz field among 4 cpuinfo entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryErrorNilCause(t *testing.T) {
	err := unavailable("current thread id", nil)

	if !errors.Is(err, ErrUnavailable) {
		t.Error("Classification must hold without a cause")
	}

	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatal("Expected errors.As to extract *QueryError")
	}
	if qe.Err != nil {
		t.Errorf("Err = %v, want nil", qe.Err)
	}
}

func TestQueryErrorWrappedFurther(t *testing.T) {
	// Callers often add their own context; classification must survive it.
	inner := unrecognized("cpu architecture", errors.New("short read"))
	outer := fmt.Errorf("collecting report: %w", inner)

	if !errors.Is(outer, ErrUnrecognized) {
		t.Error("Classification lost after additional wrapping")
	}
	var qe *QueryError
	if !errors.As(outer, &qe) {
		t.Error("QueryError lost after additional wrapping")
	}
}
