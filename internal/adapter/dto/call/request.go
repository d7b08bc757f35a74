package call

// ConnectionDetailsRequest optionally names the room and participant
type ConnectionDetailsRequest struct {
	RoomName        string `json:"room_name" validate:"omitempty,max=128"`
	ParticipantName string `json:"participant_name" validate:"omitempty,max=64"`
}

// ConnectionDetailsResponse lets the frontend join the call
type ConnectionDetailsResponse struct {
	ServerURL        string `json:"server_url"`
	RoomName         string `json:"room_name"`
	ParticipantName  string `json:"participant_name"`
	ParticipantToken string `json:"participant_token"`
}
