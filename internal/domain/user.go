package domain

// Identity is the public view of a registered user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Account is the durable, credential-bearing record behind an Identity.
// Secret holds a bcrypt hash of the password.
type Account struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// Identity strips the credential from the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email, Name: a.Name}
}
