package fuzztests

import (
	"bytes"
	"testing"
)

func TestClampInput(t *testing.T) {
	big := bytes.Repeat([]byte("x"), maxFuzzInput+10)
	got := clampInput(big)
	if len(got) != maxFuzzInput {
		t.Fatalf("len = %d, want %d", len(got), maxFuzzInput)
	}
	got[0] = 'y'
	if big[0] != 'x' {
		t.Fatal("clampInput must copy its input")
	}
	if small := clampInput([]byte("ok")); string(small) != "ok" {
		t.Fatalf("short input changed: %q", small)
	}
}

func TestClampSeed(t *testing.T) {
	if got := clampSeed(bytes.Repeat([]byte("a"), maxSeedBytes*2)); len(got) != maxSeedBytes {
		t.Fatalf("len = %d, want %d", len(got), maxSeedBytes)
	}
}
