package edgelike

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultUserAgentParser(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want UserAgent
	}{
		{"product token with full version", "Firefox/76.1.15", UserAgent{Family: "Firefox", Major: "76", Minor: "1", Patch: "15"}},
		{"partial version", "curl/7.68", UserAgent{Family: "curl", Major: "7", Minor: "68"}},
		{"only the first token counts", "Mozilla/5.0 (X11; Linux x86_64)", UserAgent{Family: "Mozilla", Major: "5", Minor: "0"}},
		{"empty string", "", UserAgent{Family: "Other"}},
		{"no product token", "not a browser", UserAgent{Family: "Other"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := defaultUserAgentParser(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
