// Package security provides password hashing, access token issuance and
// verification, limited-life account tokens and CSRF token generation.
package security
