package arg

import (
	"errors"
	"testing"

	"github.com/Paintersrp/journaldb/internal/entry"
)

func TestHandleID(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		want    int64
		wantErr bool
	}{
		{name: "valid", args: []string{"42"}, want: 42},
		{name: "padded", args: []string{" 7 "}, want: 7},
		{name: "missing", args: nil, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-3"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HandleID(tc.args, 0)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("HandleID(%v) expected error, got %d", tc.args, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleID(%v) returned error: %v", tc.args, err)
			}
			if got != tc.want {
				t.Fatalf("HandleID(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}
}

func TestHandleIDZeroIsInvalidIdentifier(t *testing.T) {
	_, err := HandleID([]string{"0"}, 0)
	var invalid *entry.InvalidIdentifierError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidIdentifierError, got %v", err)
	}
}

func TestHandleOptional(t *testing.T) {
	if got := HandleOptional([]string{"1"}, 1); got != "" {
		t.Fatalf("expected empty optional argument, got %q", got)
	}
	if got := HandleOptional([]string{"1", "out.txt"}, 1); got != "out.txt" {
		t.Fatalf("expected out.txt, got %q", got)
	}
}
