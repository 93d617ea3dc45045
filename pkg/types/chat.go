package types

// ChatRoom is a collaboration room tied to a project by naming convention.
type ChatRoom struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ChatMessage is a message in a chat room. Local is set on messages echoed
// client-side only; the server has no send endpoint, so such messages are
// never persisted.
type ChatMessage struct {
	ID        ID     `json:"id"`
	RoomID    ID     `json:"roomId"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
	Local     bool   `json:"-"`
}
