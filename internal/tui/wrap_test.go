package tui

import "testing"

func plain(s ...string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func TestWrapSegments(t *testing.T) {
	segs := []segment{
		newSegment("1 ✓ 92%", plain),
		newSegment("2 ✗ 40%", plain),
		newSegment("3 ✓ 88%", plain),
	}
	if got := wrapSegments(segs, "  ", 0); got != "1 ✓ 92%  2 ✗ 40%  3 ✓ 88%" {
		t.Fatalf("unexpected unwrapped output: %q", got)
	}
	if got := wrapSegments(segs, "  ", 16); got != "1 ✓ 92%  2 ✗ 40%\n3 ✓ 88%" {
		t.Fatalf("unexpected wrapped output: %q", got)
	}
	if got := wrapSegments(segs, "  ", 3); got != "1 ✓ 92%\n2 ✗ 40%\n3 ✓ 88%" {
		t.Fatalf("unexpected narrow output: %q", got)
	}
	if got := wrapSegments(nil, "  ", 10); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestCenterPadWideCharacters(t *testing.T) {
	if got := centerPad("三", 6); got != "  " {
		t.Fatalf("unexpected padding: %q", got)
	}
	if got := centerPad("abcdef", 3); got != "" {
		t.Fatalf("expected no padding, got %q", got)
	}
}
