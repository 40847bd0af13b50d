package httpapi

import (
	"net/http"

	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ session.Session) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	issued, err := s.authenticator.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.codec.Encode(issued)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.cookies.Set(w, token)
	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		UserID:   issued.UserID,
		Username: issued.Username,
		Role:     string(issued.Role),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request, _ session.Session) {
	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
