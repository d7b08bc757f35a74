package presenter

import (
	authDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/auth"
	callDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/call"
	"github.com/johnquangdev/sales-assistant/internal/usecase/call"
)

// ToLoginResponse builds the login confirmation
func ToLoginResponse(username string) *authDTO.LoginResponse {
	return &authDTO.LoginResponse{
		Message:  "Login successful",
		Username: username,
	}
}

// ToConnectionDetailsResponse converts call connection details to the DTO
func ToConnectionDetailsResponse(d *call.ConnectionDetails) *callDTO.ConnectionDetailsResponse {
	if d == nil {
		return nil
	}
	return &callDTO.ConnectionDetailsResponse{
		ServerURL:        d.ServerURL,
		RoomName:         d.RoomName,
		ParticipantName:  d.ParticipantName,
		ParticipantToken: d.ParticipantToken,
	}
}
