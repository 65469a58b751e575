package sanitize_test

import (
	"testing"

	"github.com/minglehub/minglehub/internal/app/system/sanitize"
)

func TestText_Empty(t *testing.T) {
	if got := sanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_PlainTextUnchanged(t *testing.T) {
	in := "Building things, meeting people."
	if got := sanitize.Text(in); got != in {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestText_StripsTags(t *testing.T) {
	got := sanitize.Text("<script>alert(1)</script>hello <b>world</b>")
	if got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestText_TrimsWhitespace(t *testing.T) {
	if got := sanitize.Text("  padded  "); got != "padded" {
		t.Errorf("got %q, want %q", got, "padded")
	}
}
