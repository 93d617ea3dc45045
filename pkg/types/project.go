package types

// Project is a workspace the user can activate. The engine only needs its
// identity; the rest is carried through for display.
type Project struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InviteCode  string `json:"inviteCode,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
