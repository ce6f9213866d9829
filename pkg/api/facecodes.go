package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calradia/rosterkit/pkg/facecode"
)

// handleDecodeFaceCode decodes a face code into its components.
func (s *Server) handleDecodeFaceCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	components, err := facecode.Decode(code)
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	sendSuccess(w, map[string]interface{}{
		"face_code":  facecode.Format(code, true),
		"components": components,
	})
}

// handleEncodeFaceCode packs components into a face code. Out-of-range
// values are masked, matching the codec's wrapping law.
func (s *Server) handleEncodeFaceCode(w http.ResponseWriter, r *http.Request) {
	var req FaceCodeEncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	sendSuccess(w, map[string]string{
		"face_code": facecode.Encode(req.Components()),
	})
}

// handleValidateFaceCode reports whether a string is a valid face code.
func (s *Server) handleValidateFaceCode(w http.ResponseWriter, r *http.Request) {
	var req FaceCodeValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	sendSuccess(w, map[string]bool{"valid": facecode.Validate(req.FaceCode)})
}

// handleFormatFaceCode normalizes a face code for display.
func (s *Server) handleFormatFaceCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !facecode.Validate(code) {
		sendError(w, "Not a 64-character hex face code", http.StatusBadRequest)
		return
	}
	includePrefix := r.URL.Query().Get("prefix") != "false"
	sendSuccess(w, map[string]string{
		"face_code": facecode.Format(code, includePrefix),
	})
}
