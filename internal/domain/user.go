package domain

// User mirrors the identity resolved by the external auth front-door. The core
// never issues sessions; it only needs a stable identifier to scope ownership.
type User struct {
	ID    string
	Email string
	Name  string
}
