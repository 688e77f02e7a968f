package response

import "github.com/sangkips/billing-counter/internal/domain/entity"

// SessionResponse is the operator as shown to the terminal. The backend
// token never leaves the counter.
type SessionResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	Role      string `json:"role"`
}

func NewSessionResponse(s *entity.CounterSession) *SessionResponse {
	if s == nil {
		return nil
	}
	return &SessionResponse{
		Username:  s.Username,
		FirstName: s.FirstName,
		Role:      s.Role,
	}
}
