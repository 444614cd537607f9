package models

// User is the authenticated identity returned by the auth endpoints and
// mirrored into the persisted session store.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
