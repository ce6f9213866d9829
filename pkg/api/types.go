package api

import (
	"time"

	"github.com/calradia/rosterkit/pkg/facecode"
)

// APIResponse represents a standard API response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Bind           string
	Port           int
	APIKey         string // empty disables the api-key middleware
	DataDir        string // snapshot store location
	SessionTimeout time.Duration
	SweepInterval  time.Duration
}

// SessionInfo describes a session to clients.
type SessionInfo struct {
	SessionID      string    `json:"session_id"`
	CharacterCount int       `json:"character_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessed   time.Time `json:"last_accessed"`
	BackupCount    int       `json:"backup_count"`
	HasBackups     bool      `json:"has_backups"`
}

// CharacterInfo describes one roster record to clients.
type CharacterInfo struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Sex       string `json:"sex"`
	Skin      string `json:"skin"`
	SkinKnown bool   `json:"skin_known"`
	Age       uint16 `json:"age"`
	Hairstyle uint8  `json:"hairstyle"`
	HairColor uint8  `json:"hair_color"`
	Banner    string `json:"banner"`
	FaceCode  string `json:"face_code,omitempty"`
}

// RosterStatus carries the corruption flags alongside a character list.
type RosterStatus struct {
	Characters    []CharacterInfo `json:"characters"`
	CountMismatch bool            `json:"count_mismatch"`
	Truncated     bool            `json:"truncated"`
}

// GenerateRequest asks for a freshly generated roster.
type GenerateRequest struct {
	Count int `json:"count"`
}

// RestoreRequest selects a backup; a missing index means the most recent.
type RestoreRequest struct {
	BackupIndex *int `json:"backup_index,omitempty"`
}

// BackupEntry describes one stored snapshot.
type BackupEntry struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// FaceCodeEncodeRequest carries components to pack into a face code.
type FaceCodeEncodeRequest struct {
	Hair        uint8   `json:"hair"`
	Beard       uint8   `json:"beard"`
	Skin        uint8   `json:"skin"`
	HairTexture uint8   `json:"hair_texture"`
	HairColor   uint8   `json:"hair_color"`
	Age         uint8   `json:"age"`
	SkinColor   uint8   `json:"skin_color"`
	Morphs      []uint8 `json:"morphs"`
}

// Components converts the request into codec components, zero-padding or
// truncating the morph list.
func (r *FaceCodeEncodeRequest) Components() facecode.Components {
	return facecode.Components{
		Hair:        r.Hair,
		Beard:       r.Beard,
		Skin:        r.Skin,
		HairTexture: r.HairTexture,
		HairColor:   r.HairColor,
		Age:         r.Age,
		SkinColor:   r.SkinColor,
		Morphs:      facecode.MorphsFromSlice(r.Morphs),
	}
}

// FaceCodeApplyRequest carries a face code to write into a record.
type FaceCodeApplyRequest struct {
	FaceCode string `json:"face_code"`
}

// FaceCodeValidateRequest carries a candidate face code.
type FaceCodeValidateRequest struct {
	FaceCode string `json:"face_code"`
}
