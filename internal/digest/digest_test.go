package digest

import "testing"

func TestSumDeterministic(t *testing.T) {
	a := Sum("hunter2")
	b := Sum("hunter2")
	if a != b {
		t.Errorf("same input produced different digests: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}

func TestSumEmptyString(t *testing.T) {
	// The empty string is a valid input with a fixed digest.
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(""); got != want {
		t.Errorf("Sum(\"\") = %q, want %q", got, want)
	}
}

func TestSumDistinguishesInputs(t *testing.T) {
	if Sum("pw1") == Sum("pw2") {
		t.Error("different inputs produced the same digest")
	}
}

func TestMatch(t *testing.T) {
	stored := Sum("correct horse")
	if !Match(stored, "correct horse") {
		t.Error("Match should accept the original plaintext")
	}
	if Match(stored, "battery staple") {
		t.Error("Match should reject a different plaintext")
	}
	if Match(stored, "") {
		t.Error("Match should reject the empty string against a non-empty password")
	}
}
