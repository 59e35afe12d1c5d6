package model

// Session binds a live connection to a user identity and room for as long
// as the connection stays open. Sessions are treated as immutable once
// stored in the presence registry.
type Session struct {
	ConnID      string
	UserID      string
	DisplayName string
	Role        string
	Room        string
}

// OnlineUser is one entry of the online-roster pushed to the admin room.
type OnlineUser struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Room     string `json:"room"`
}
