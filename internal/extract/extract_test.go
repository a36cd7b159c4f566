package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain address",
			raw:  "Please contact sarah.johnson@email.com about this.",
			want: "sarah.johnson@email.com",
		},
		{
			name: "first of several wins",
			raw:  "From: first@example.com\nCC: second@example.com",
			want: "first@example.com",
		},
		{
			name: "address with plus and subdomain",
			raw:  "reach me at dev+tickets@mail.example.co.uk thanks",
			want: "dev+tickets@mail.example.co.uk",
		},
		{
			name: "no address falls back",
			raw:  "I forgot to include my contact details.",
			want: FallbackEmail,
		},
		{
			name: "at-sign without domain dot is not an address",
			raw:  "ping me @support anytime",
			want: FallbackEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw).Email)
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "simple marker",
			raw:  "Hello\nName: Sarah Johnson\nBye",
			want: "Sarah Johnson",
		},
		{
			name: "marker is case insensitive",
			raw:  "NAME:   Michael Chen  ",
			want: "Michael Chen",
		},
		{
			name: "first marker wins",
			raw:  "name: Emma Davis\nname: Someone Else",
			want: "Emma Davis",
		},
		{
			name: "marker mid line",
			raw:  "Customer name: Alex Rivera",
			want: "Alex Rivera",
		},
		{
			name: "no marker falls back",
			raw:  "Just a ticket body with no signature.",
			want: FallbackName,
		},
		{
			// Known edge case: a bare marker yields an empty name
			// rather than the fallback.
			name: "empty marker stays empty",
			raw:  "Name:\nEmail: a@b.com",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw).Name)
		})
	}
}

func TestExtractBothFields(t *testing.T) {
	info := Extract("Subject: Billing Error\n\nEmail: sarah.johnson@email.com\nName: Sarah Johnson\n")
	assert.Equal(t, "sarah.johnson@email.com", info.Email)
	assert.Equal(t, "Sarah Johnson", info.Name)
}
