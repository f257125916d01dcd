package domain

// Profile is the identity a user logs in as.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
