package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/dotkeep/internal/errors"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		max         int
		wantKind    Kind
		wantIndices []int
		wantErr     bool
	}{
		{name: "quit", input: "q", max: 5, wantKind: KindQuit},
		{name: "quit uppercase", input: "Q", max: 5, wantKind: KindQuit},
		{name: "history", input: "h", max: 5, wantKind: KindHistory},
		{name: "all", input: "all", max: 5, wantKind: KindAll},
		{name: "all with spaces", input: "  all  ", max: 5, wantKind: KindAll},
		{
			name:        "comma separated",
			input:       "1,3,5",
			max:         5,
			wantKind:    KindItems,
			wantIndices: []int{1, 3, 5},
		},
		{
			name:        "space separated",
			input:       "1 3 5",
			max:         5,
			wantKind:    KindItems,
			wantIndices: []int{1, 3, 5},
		},
		{
			name:        "mixed separators",
			input:       "1, 3 5",
			max:         5,
			wantKind:    KindItems,
			wantIndices: []int{1, 3, 5},
		},
		{
			name:        "duplicates collapsed",
			input:       "2,2,2",
			max:         5,
			wantKind:    KindItems,
			wantIndices: []int{2},
		},
		{
			name:        "invalid tokens do not abort valid ones",
			input:       "1,zebra,99,3",
			max:         5,
			wantKind:    KindItems,
			wantIndices: []int{1, 3},
		},
		{name: "all invalid", input: "zebra, 99", max: 5, wantErr: true},
		{name: "empty", input: "", max: 5, wantErr: true},
		{name: "zero is out of range", input: "0", max: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelection(tt.input, tt.max)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSelection(%q) succeeded, want error", tt.input)
				}
				if !errors.Is(err, errors.ErrInvalidSelection) {
					t.Errorf("error = %v, want ErrInvalidSelection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSelection(%q) failed: %v", tt.input, err)
			}
			if sel.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", sel.Kind, tt.wantKind)
			}
			if len(sel.Indices) != len(tt.wantIndices) {
				t.Fatalf("Indices = %v, want %v", sel.Indices, tt.wantIndices)
			}
			for i, n := range tt.wantIndices {
				if sel.Indices[i] != n {
					t.Errorf("Indices[%d] = %d, want %d", i, sel.Indices[i], n)
				}
			}
		})
	}
}

func TestParseSelection_RejectedTokens(t *testing.T) {
	sel, err := ParseSelection("1,zebra,99", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel.Rejected) != 2 {
		t.Fatalf("Rejected = %v, want 2 tokens", sel.Rejected)
	}
	if sel.Rejected[0] != "zebra" || sel.Rejected[1] != "99" {
		t.Errorf("Rejected = %v", sel.Rejected)
	}
}

func TestSelector_RepromptsOnInvalid(t *testing.T) {
	in := strings.NewReader("nope\n2\n")
	var out bytes.Buffer
	s := NewSelectorWithIO(in, &out)

	sel, err := s.SelectItems(5)
	if err != nil {
		t.Fatalf("SelectItems() failed: %v", err)
	}
	if sel.Kind != KindItems || len(sel.Indices) != 1 || sel.Indices[0] != 2 {
		t.Errorf("selection = %+v", sel)
	}
	if !strings.Contains(out.String(), "Not a number") {
		t.Errorf("missing per-token report: %q", out.String())
	}
}

func TestSelector_EOFCancels(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	_, err := s.SelectItems(5)
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("error = %v, want ErrSelectionCancelled", err)
	}
}

func TestSelector_NoItems(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader("1\n"), &bytes.Buffer{})
	_, err := s.SelectItems(0)
	if !errors.Is(err, ErrNoItems) {
		t.Errorf("error = %v, want ErrNoItems", err)
	}
}

func TestSelector_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"whatever\n", false},
		{"", false}, // EOF
	}

	for _, tt := range tests {
		s := NewSelectorWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
		if got := s.Confirm("continue?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
