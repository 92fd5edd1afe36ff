package edgelike

import (
	"strings"
)

// UserAgent is the structured result of parsing a user agent string: a family name and up to
// three version components. Components the parser could not determine are empty.
type UserAgent struct {
	Family string
	Major  string
	Minor  string
	Patch  string
}

// UserAgentParser parses a user agent string into structured data. The parsing algorithm itself
// is opaque to this package; embedders plug in their own via WithUserAgentParser. A parser is
// called with the raw header value, or the empty string when the header is absent, and may fail.
type UserAgentParser func(uastring string) (UserAgent, error)

// defaultUserAgentParser reads the first product token of the string, eg "Firefox/76.1.15"
// yields family "Firefox" and versions 76, 1, 15. Strings with no product token classify as
// family "Other", matching what the hosted parser does for unrecognized agents. It never fails.
func defaultUserAgentParser(uastring string) (UserAgent, error) {
	token := uastring
	if idx := strings.IndexByte(token, ' '); idx >= 0 {
		token = token[:idx]
	}

	name, version, found := strings.Cut(token, "/")
	if !found || name == "" {
		return UserAgent{Family: "Other"}, nil
	}

	ua := UserAgent{Family: name}
	parts := strings.SplitN(version, ".", 4)
	if len(parts) > 0 {
		ua.Major = parts[0]
	}
	if len(parts) > 1 {
		ua.Minor = parts[1]
	}
	if len(parts) > 2 {
		ua.Patch = parts[2]
	}

	return ua, nil
}
