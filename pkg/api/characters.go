package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calradia/rosterkit/pkg/codec"
	"github.com/calradia/rosterkit/pkg/facecode"
)

// maxGenerateCount bounds a single generate request. The format itself
// allows a uint32 count; this is a service-level sanity cap.
const maxGenerateCount = 10000

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// handleListCharacters parses the session roster and returns every
// record, with corruption flags surfaced rather than hidden.
func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.Data(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}

	ros, err := codec.Parse(data)
	if err != nil {
		s.recordOp("list", false)
		s.sendCoreError(w, err)
		return
	}
	if ros.CountMismatch {
		s.log.Warn().Uint32("count_a", ros.CountA).Uint32("count_b", ros.CountB).
			Msg("roster header counts disagree")
	}

	status := RosterStatus{
		Characters:    make([]CharacterInfo, 0, len(ros.Records)),
		CountMismatch: ros.CountMismatch,
		Truncated:     ros.Truncated,
	}
	for _, rec := range ros.Records {
		status.Characters = append(status.Characters, characterInfo(data, rec))
	}
	s.recordOp("list", true)
	sendSuccess(w, status)
}

// handleGetCharacter returns a single record by index.
func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.Data(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Invalid character index", http.StatusBadRequest)
		return
	}

	ros, err := codec.Parse(data)
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	if idx < 0 || idx >= len(ros.Records) {
		sendError(w, "Character not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, characterInfo(data, ros.Records[idx]))
}

// handleDeleteCharacter splices one record out of the session roster.
func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Invalid character index", http.StatusBadRequest)
		return
	}

	err = s.sessions.Mutate(sessionID(r), func(buf []byte) ([]byte, error) {
		return codec.Delete(buf, codec.Index(idx))
	})
	if err != nil {
		s.recordOp("delete", false)
		s.sendCoreError(w, err)
		return
	}
	s.recordOp("delete", true)
	sendSuccess(w, map[string]string{"message": "Character deleted successfully"})
}

// handleGenerateCharacters replaces the session roster with a freshly
// generated one of the requested size.
func (s *Server) handleGenerateCharacters(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if req.Count < 1 || req.Count > maxGenerateCount {
		sendError(w, "Count must be between 1 and 10000", http.StatusBadRequest)
		return
	}

	err := s.sessions.Mutate(sessionID(r), func([]byte) ([]byte, error) {
		return codec.Generate(codec.NewHeader(0), codec.NewTemplate(), req.Count, s.rng), nil
	})
	if err != nil {
		s.recordOp("generate", false)
		s.sendCoreError(w, err)
		return
	}
	s.recordOp("generate", true)
	s.log.Info().Int("count", req.Count).Str("session", sessionID(r)).Msg("generated characters")
	sendSuccess(w, map[string]interface{}{
		"message": "Characters generated successfully",
		"count":   req.Count,
	})
}

// handleGetCharacterFaceCode returns the face code extracted from one
// record's appearance bytes.
func (s *Server) handleGetCharacterFaceCode(w http.ResponseWriter, r *http.Request) {
	data, err := s.sessions.Data(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Invalid character index", http.StatusBadRequest)
		return
	}

	ros, err := codec.Parse(data)
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	if idx < 0 || idx >= len(ros.Records) {
		sendError(w, "Character not found", http.StatusNotFound)
		return
	}
	rec := ros.Records[idx]
	end := rec.Offset + rec.Size
	if end > len(data) {
		sendError(w, "Character record is truncated", http.StatusBadRequest)
		return
	}
	code, err := facecode.ExtractFaceCode(data[rec.Offset:end])
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sendSuccess(w, map[string]string{"face_code": code})
}

// handleApplyCharacterFaceCode writes a face code into one record's
// appearance bytes. Only the byte spans with a known hex correspondence
// change; the rest of the record passes through.
func (s *Server) handleApplyCharacterFaceCode(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sendError(w, "Invalid character index", http.StatusBadRequest)
		return
	}
	var req FaceCodeApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if !facecode.Validate(req.FaceCode) {
		s.sendCoreError(w, facecode.ErrInvalidFormat)
		return
	}

	err = s.sessions.Mutate(sessionID(r), func(buf []byte) ([]byte, error) {
		ros, err := codec.Parse(buf)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(ros.Records) {
			return nil, codec.ErrIndexRange
		}
		rec := ros.Records[idx]
		end := rec.Offset + rec.Size
		if end > len(buf) {
			return nil, codec.ErrTooShort
		}
		updated, err := facecode.ApplyFaceCode(buf[rec.Offset:end], req.FaceCode)
		if err != nil {
			return nil, err
		}
		copy(buf[rec.Offset:end], updated)
		return buf, nil
	})
	if err != nil {
		s.recordOp("apply_facecode", false)
		s.sendCoreError(w, err)
		return
	}
	s.recordOp("apply_facecode", true)
	sendSuccess(w, map[string]string{"message": "Face code applied successfully"})
}

func (s *Server) recordOp(op string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordRosterOperation(op, ok)
	}
}

// characterInfo builds the client view of one record, including the face
// code extracted from its appearance bytes when the record is intact.
func characterInfo(buf []byte, rec codec.Record) CharacterInfo {
	info := CharacterInfo{
		Index:     rec.Index,
		Name:      rec.Name,
		Sex:       rec.SexName,
		Skin:      rec.SkinName,
		SkinKnown: rec.SkinKnown,
		Age:       rec.Age,
		Hairstyle: rec.Hairstyle,
		HairColor: rec.HairColor,
		Banner:    rec.BannerName,
	}
	end := rec.Offset + rec.Size
	if end <= len(buf) {
		if code, err := facecode.ExtractFaceCode(buf[rec.Offset:end]); err == nil {
			info.FaceCode = code
		}
	}
	return info
}
