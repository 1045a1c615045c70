package models

import (
	"testing"
)

func TestIssue_FullRepo(t *testing.T) {
	issue := &Issue{
		Org:  "myorg",
		Repo: "myrepo",
	}

	if issue.FullRepo() != "myorg/myrepo" {
		t.Errorf("FullRepo() = %v, want myorg/myrepo", issue.FullRepo())
	}
}

func TestIssue_LabelValue(t *testing.T) {
	issue := &Issue{Labels: NewLabels("bug", "Time: <1 Hour", "id: I_abc")}

	tests := []struct {
		prefix string
		want   string
		found  bool
	}{
		{"Time: ", "<1 Hour", true},
		{"id: ", "I_abc", true},
		{"Pricing: ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, ok := issue.LabelValue(tt.prefix)
			if ok != tt.found || got != tt.want {
				t.Errorf("LabelValue(%q) = %q, %v; want %q, %v", tt.prefix, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestSameLabelSet(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"same order", []string{"a", "b"}, []string{"a", "b"}, true},
		{"different order", []string{"b", "a"}, []string{"a", "b"}, true},
		{"missing", []string{"a"}, []string{"a", "b"}, false},
		{"different", []string{"a", "c"}, []string{"a", "b"}, false},
		{"both empty", nil, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameLabelSet(tt.a, tt.b); got != tt.want {
				t.Errorf("SameLabelSet(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
