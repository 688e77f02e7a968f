package entity

// TillSession gates order finalisation. It starts closed.
type TillSession struct {
	IsOpen       bool   `json:"is_open"`
	OpenedBy     string `json:"opened_by,omitempty"`
	OpenedByRole string `json:"opened_by_role,omitempty"`
}

// CounterSession is the operator signed in at the terminal.
type CounterSession struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	Role      string `json:"role"`
	Token     string `json:"token,omitempty"`
}

// DisplayName is the server name printed on orders.
func (s *CounterSession) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.FirstName != "" {
		return s.FirstName
	}
	return s.Username
}

// AuthResult is a successful backend login.
type AuthResult struct {
	Token     string
	Role      string
	FirstName string
}
