package repository

import (
	"reflect"
	"testing"
)

func TestJoinSplitList(t *testing.T) {
	in := []string{"gps", "vhf_radio", "sounder"}
	joined := joinList(in)
	if got := splitList(joined); !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip lost data: %v", got)
	}
}

func TestSplitListEmpty(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Fatalf("empty column must yield nil, got %v", got)
	}
}

func TestJoinListEmpty(t *testing.T) {
	if got := joinList(nil); got != "" {
		t.Fatalf("nil list must yield empty column, got %q", got)
	}
}
