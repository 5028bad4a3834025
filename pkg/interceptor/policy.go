package interceptor

import "net/http"

// RejectionPolicy decides whether a response should be treated as a
// credential rejection that triggers a refresh. hadCredential reports
// whether the request that produced resp carried an Authorization header
// attached by the interceptor.
type RejectionPolicy func(resp *http.Response, hadCredential bool) bool

// DefaultRejectionPolicy treats a 401 Unauthorized response as a rejection
// whether or not a credential was attached, so a request sent without a
// credential triggers the first refresh. Any other non-2xx response counts
// as a rejection only when a credential was attached.
func DefaultRejectionPolicy(resp *http.Response, hadCredential bool) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if !hadCredential {
		return false
	}
	return resp.StatusCode < 200 || resp.StatusCode >= 300
}

// Policy401Only narrows rejection to the canonical 401 Unauthorized status,
// for backends where other non-2xx codes do not indicate credential
// failure. A 401 counts whether or not a credential was attached.
func Policy401Only(resp *http.Response, hadCredential bool) bool {
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusUnauthorized
}
