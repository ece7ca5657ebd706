package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewritePageArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tourdesk"},
			want: []string{"tourdesk"},
		},
		{
			name: "bare page lists",
			in:   []string{"tourdesk", "customers"},
			want: []string{"tourdesk", "customers", "list"},
		},
		{
			name: "page with list flags",
			in:   []string{"tourdesk", "payments", "--format", "table"},
			want: []string{"tourdesk", "payments", "list", "--format", "table"},
		},
		{
			name: "list flag value is not an id",
			in:   []string{"tourdesk", "customers", "--sort", "email"},
			want: []string{"tourdesk", "customers", "list", "--sort", "email"},
		},
		{
			name: "page and id shows",
			in:   []string{"tourdesk", "hotel-bookings", "b-1"},
			want: []string{"tourdesk", "hotel-bookings", "show", "b-1"},
		},
		{
			name: "resource path normalised",
			in:   []string{"tourdesk", "/packages", "list"},
			want: []string{"tourdesk", "packages", "list"},
		},
		{
			name: "page after value flag",
			in:   []string{"tourdesk", "--base-url", "http://localhost:8080", "expenses"},
			want: []string{"tourdesk", "--base-url", "http://localhost:8080", "expenses", "list"},
		},
		{
			name: "page after equals flag",
			in:   []string{"tourdesk", "--format=yaml", "transports", "t-9"},
			want: []string{"tourdesk", "--format=yaml", "transports", "show", "t-9"},
		},
		{
			name: "explicit verb kept",
			in:   []string{"tourdesk", "customers", "delete", "c-1", "--yes"},
			want: []string{"tourdesk", "customers", "delete", "c-1", "--yes"},
		},
		{
			name: "other command not rewritten",
			in:   []string{"tourdesk", "config", "get"},
			want: []string{"tourdesk", "config", "get"},
		},
		{
			name: "double dash stops",
			in:   []string{"tourdesk", "--", "customers"},
			want: []string{"tourdesk", "--", "customers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewritePageArgs(append([]string(nil), tt.in...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("rewritePageArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
