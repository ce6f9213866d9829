package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/calradia/rosterkit/pkg/codec"
)

// maxUploadSize bounds an uploaded roster. The largest plausible rosters
// run to a few megabytes; 64 MiB is far past anything the game loads.
const maxUploadSize = 64 << 20

// handleUpload replaces the session roster with the request body after
// validating it, so a malformed file never reaches the session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize+1))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxUploadSize {
		sendError(w, "Uploaded file too large", http.StatusRequestEntityTooLarge)
		return
	}

	if err := validateUpload(body); err != nil {
		s.recordOp("upload", false)
		s.sendCoreError(w, err)
		return
	}

	if err := s.sessions.Update(sessionID(r), body); err != nil {
		s.sendCoreError(w, err)
		return
	}
	s.recordOp("upload", true)
	sendSuccess(w, map[string]interface{}{
		"message": "Profiles file uploaded successfully",
		"size":    len(body),
	})
}

// validateUpload applies the validate-then-commit rule: a buffer must
// hold a header and declare a count that fits its size before it is
// allowed to replace session state.
func validateUpload(data []byte) error {
	return codec.CheckBuffer(data)
}

// handleDownload streams the session roster back as a file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.Data(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="profiles.dat"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleCreateBackup snapshots the session roster.
func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	idx, err := s.sessions.AddBackup(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	sendSuccess(w, map[string]interface{}{
		"message":      "Backup created successfully",
		"backup_index": idx,
	})
}

// handleListBackups lists the session's snapshots.
func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := s.sessions.Backups(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	entries := make([]BackupEntry, 0, len(backups))
	for _, b := range backups {
		entries = append(entries, BackupEntry{Index: b.Index, Size: b.Size})
	}
	sendSuccess(w, entries)
}

// handleRestoreBackup replaces the session roster with a snapshot, the
// most recent by default.
func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
			return
		}
	}
	index := -1
	if req.BackupIndex != nil {
		index = *req.BackupIndex
	}

	if err := s.sessions.RestoreBackup(sessionID(r), index); err != nil {
		s.sendCoreError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"message": "Backup restored successfully"})
}
