package scenario

import "strings"

// Caller returns the account named by call.from.
func (s Scenario) Caller() (Account, bool) {
	acc, ok := s.Accounts[s.Call.From]
	return acc, ok
}

// CallerUser is the user part placed in the From header. It falls back to the
// literal call.from when no account matches.
func (s Scenario) CallerUser() string {
	if acc, ok := s.Caller(); ok {
		return acc.Username
	}
	return userPart(s.Call.From)
}

// Destination resolves call.to. An account key wins over a literal, so
// "callee" resolves to that account's username while "2000" or
// "sip:2000@pbx.example.com" resolve to "2000".
func (s Scenario) Destination() string {
	if acc, ok := s.Accounts[s.Call.To]; ok {
		return acc.Username
	}
	return userPart(s.Call.To)
}

// Domain is the SIP domain used in request URIs, target.host unless
// target.domain overrides it.
func (s Scenario) Domain() string {
	if s.Target.Domain != "" {
		return s.Target.Domain
	}
	return s.Target.Host
}

// Credentials returns the caller's username and password for digest
// authentication. ok is false unless both are present.
func (s Scenario) Credentials() (username, password string, ok bool) {
	acc, found := s.Caller()
	if !found || !acc.HasCredentials() {
		return "", "", false
	}
	return acc.Username, acc.Password, true
}

func userPart(v string) string {
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "sips:"):
		v = v[len("sips:"):]
	case strings.HasPrefix(lower, "sip:"):
		v = v[len("sip:"):]
	}
	if i := strings.IndexByte(v, '@'); i >= 0 {
		v = v[:i]
	}
	return v
}
