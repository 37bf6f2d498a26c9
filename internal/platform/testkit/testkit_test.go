package testkit

import (
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

var seam = func() string { return "real" }

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	MustContain(t, "ana: 0.18 FC", "0.18 FC")
	MustContain(t, strings.Repeat("x", 600)+"needle", "needle")
}

func TestEnv(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		Env(t, "CONFLUX_TESTKIT_A", "1", "CONFLUX_TESTKIT_B", "two")
		if os.Getenv("CONFLUX_TESTKIT_A") != "1" || os.Getenv("CONFLUX_TESTKIT_B") != "two" {
			t.Fatalf("env not applied")
		}
	})
	if _, ok := os.LookupEnv("CONFLUX_TESTKIT_A"); ok {
		t.Fatalf("env leaked past the subtest")
	}
}

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seam, func() string { return "fake" })
		if seam() != "fake" {
			t.Fatalf("swap not applied")
		}
	})
	if seam() != "real" {
		t.Fatalf("seam not restored, got %q", seam())
	}
}

func TestSerial_NoOverlap(t *testing.T) {
	var inside, overlaps atomic.Int32
	for _, name := range []string{"a", "b", "c"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			Serial(t)
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			for i := 0; i < 1000; i++ {
				_ = seam()
			}
			inside.Add(-1)
		})
	}
	t.Cleanup(func() {
		if overlaps.Load() != 0 {
			t.Fatalf("serial subtests overlapped %d times", overlaps.Load())
		}
	})
}
