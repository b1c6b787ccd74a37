package dto

// Envelope types carried in the "type" field of every socket frame.
const (
	TypeJoinRoom   = "join_room"
	TypeLeaveRoom  = "leave_room"
	TypeCursorMove = "cursor_move"
	TypeChat       = "chat"
	TypeUserList   = "user_list"
	TypeError      = "error"
)

// ClientEnvelope is a frame sent by a client. Which fields are used depends on Type.
type ClientEnvelope struct {
	Type    string  `json:"type"`
	RoomID  string  `json:"roomId"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Participant is one entry of a user_list frame.
type Participant struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// UserListDTO replaces the participant roster of a room on every client.
type UserListDTO struct {
	Type   string        `json:"type"`
	RoomID string        `json:"roomId"`
	Users  []Participant `json:"users"`
}

// CursorDTO is forwarded to every member of the room except its origin.
type CursorDTO struct {
	Type   string  `json:"type"`
	RoomID string  `json:"roomId"`
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ChatDTO echoes a chat envelope to every member, sender included.
type ChatDTO struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ErrorDTO is sent only to the connection whose frame failed.
type ErrorDTO struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message"`
}

// ServerMessage is the client-side view of any server frame.
type ServerMessage struct {
	Type    string        `json:"type"`
	RoomID  string        `json:"roomId"`
	Message string        `json:"message"`
	UserID  string        `json:"userId"`
	Name    string        `json:"name"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Users   []Participant `json:"users"`
}

func NewUserList(roomID string, users []Participant) UserListDTO {
	if users == nil {
		users = []Participant{}
	}
	return UserListDTO{Type: TypeUserList, RoomID: roomID, Users: users}
}

func NewChat(roomID, message string) ChatDTO {
	return ChatDTO{Type: TypeChat, RoomID: roomID, Message: message}
}

func NewError(roomID, message string) ErrorDTO {
	return ErrorDTO{Type: TypeError, RoomID: roomID, Message: message}
}
