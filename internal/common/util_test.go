package common

import (
	"testing"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- TrimmedOrNil ----------

func TestTrimmedOrNil(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "   \t\n", want: nil},
		{name: "text", in: "cash", want: ptr("cash")},
		{name: "padded", in: "  cash received 5 Jan ", want: ptr("cash received 5 Jan")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimmedOrNil(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("want nil, got %q", *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("want %q, got %v", *tt.want, got)
			}
		})
	}
}

func ptr(s string) *string { return &s }
