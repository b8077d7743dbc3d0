package diagnostics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSuggestSimilar(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		candidates []string
		max        int
		want       []string
	}{
		{
			name:       "exact match ranks first",
			target:     "task",
			candidates: []string{"mask", "task"},
			max:        3,
			want:       []string{"task", "mask"},
		},
		{
			name:       "weak candidates are dropped",
			target:     "q",
			candidates: []string{"process", "subprocess"},
			max:        3,
			want:       nil,
		},
		{
			name:       "max truncates",
			target:     "task",
			candidates: []string{"task", "tasks", "taskx", "taska"},
			max:        2,
			want:       []string{"task", "tasks"},
		},
		{
			name:       "empty candidates",
			target:     "task",
			candidates: nil,
			max:        3,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSimilar(tt.target, tt.candidates, tt.max)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuggestKeywords(t *testing.T) {
	got := SuggestKeywords("proccess")
	if len(got) == 0 || got[0] != "process" {
		t.Errorf("SuggestKeywords(proccess) = %v, want process first", got)
	}
	if len(got) > 3 {
		t.Errorf("SuggestKeywords returned %d entries, cap is 3", len(got))
	}
}

func TestSuggestEventTypes(t *testing.T) {
	got := SuggestEventTypes("mesage")
	if len(got) == 0 || got[0] != "message" {
		t.Errorf("SuggestEventTypes(mesage) = %v, want message first", got)
	}
}

func TestSuggestFlowTypesCap(t *testing.T) {
	got := SuggestFlowTypes("->")
	if len(got) > 2 {
		t.Errorf("SuggestFlowTypes returned %d entries, cap is 2", len(got))
	}
}

func TestDetectKeywordTypo(t *testing.T) {
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{"proces", "process", true},
		{"tsak", "task", true},
		{"subproces", "subprocess", true},
		{"zzz", "", false},
		{"completely_unrelated_name_x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, ok := DetectKeywordTypo(tt.target)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectKeywordTypo(%q) = (%q, %t), want (%q, %t)",
					tt.target, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsLikelyKeywordTypo(t *testing.T) {
	if !IsLikelyKeywordTypo("tsak") {
		t.Error("tsak should register as a likely keyword typo")
	}
	if IsLikelyKeywordTypo("qqqq") {
		t.Error("qqqq should not resemble any keyword")
	}
}

func TestSuggestIdentifiers(t *testing.T) {
	ids := []string{"validate_order", "ship_order", "cancel"}
	got := SuggestIdentifiers("validate_ordr", ids)
	if len(got) == 0 || got[0] != "validate_order" {
		t.Errorf("SuggestIdentifiers = %v, want validate_order first", got)
	}
}
