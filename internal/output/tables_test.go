package output

import (
	"testing"

	"github.com/tilewm/core/internal/types"
)

func TestFormatFlagsListsSetFlagsOnly(t *testing.T) {
	got := formatFlags(types.WindowFlags{Sticky: true, Minimized: true})
	if got != "sticky,min" {
		t.Errorf("expected \"sticky,min\", got %q", got)
	}
}

func TestFormatFlagsNoneSetReturnsDash(t *testing.T) {
	if got := formatFlags(types.WindowFlags{}); got != "-" {
		t.Errorf("expected \"-\", got %q", got)
	}
}

func TestTruncateShortensLongStrings(t *testing.T) {
	got := truncate("a very long window title indeed", 10)
	if len(got) != 10 {
		t.Errorf("expected truncated length 10, got %d (%q)", len(got), got)
	}
}

func TestTruncateLeavesShortStringsAlone(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
}
