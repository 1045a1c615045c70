package models

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of an issue
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Label is a single issue label, compared by name
type Label struct {
	Name string `json:"name"`
}

// Issue represents a partner or mirrored GitHub issue
type Issue struct {
	ID          string  `json:"id"` // GraphQL node id, stable across renames
	Org         string  `json:"org"`
	Repo        string  `json:"repo"`
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	State       State   `json:"state"`
	Assigned    bool    `json:"assigned"`
	Labels      []Label `json:"labels"`
	PullRequest bool    `json:"pull_request"`
	Merged      bool    `json:"merged"` // closed by a merged pull request
	URL         string  `json:"url"`
}

// FullRepo returns the full repository name (org/repo)
func (i *Issue) FullRepo() string {
	return fmt.Sprintf("%s/%s", i.Org, i.Repo)
}

// IsOpen reports whether the issue is open
func (i *Issue) IsOpen() bool {
	return i.State == StateOpen
}

// IsClosed reports whether the issue is closed
func (i *Issue) IsClosed() bool {
	return i.State == StateClosed
}

// LabelNames returns the label names in issue order
func (i *Issue) LabelNames() []string {
	return LabelNames(i.Labels)
}

// HasLabel reports whether the issue carries a label with the exact name
func (i *Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// LabelWithPrefix returns the first label name starting with prefix
func (i *Issue) LabelWithPrefix(prefix string) (string, bool) {
	return FindPrefix(i.Labels, prefix)
}

// LabelValue returns the trimmed text after prefix of the first matching label
func (i *Issue) LabelValue(prefix string) (string, bool) {
	name, ok := FindPrefix(i.Labels, prefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(name, prefix)), true
}

// NewLabels builds a label slice from names
func NewLabels(names ...string) []Label {
	labels := make([]Label, len(names))
	for i, n := range names {
		labels[i] = Label{Name: n}
	}
	return labels
}

// LabelNames flattens labels to their names
func LabelNames(labels []Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return names
}

// FindPrefix returns the first label name starting with prefix
func FindPrefix(labels []Label, prefix string) (string, bool) {
	for _, l := range labels {
		if strings.HasPrefix(l.Name, prefix) {
			return l.Name, true
		}
	}
	return "", false
}

// SameLabelSet compares two label name lists as unordered sets
func SameLabelSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, n := range a {
		setA[n] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, n := range b {
		setB[n] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for n := range setA {
		if _, ok := setB[n]; !ok {
			return false
		}
	}
	return true
}
