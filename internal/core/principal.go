// AngelaMos | 2026
// principal.go

package core

// Principal is the authenticated caller behind a bearer token.
type Principal struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
