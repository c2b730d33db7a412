package transcript

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const archiveVersion uint8 = 1

// Archive is a finished debate as stored on disk.
type Archive struct {
	Version      uint8           `msgpack:"version"`
	DebateId     string          `msgpack:"debate_id"`
	InitialClaim string          `msgpack:"initial_claim"`
	Context      string          `msgpack:"context"`
	MaxRounds    int             `msgpack:"max_rounds"`
	Verifier     string          `msgpack:"verifier"`
	Judgment     string          `msgpack:"judgment,omitempty"`
	SavedAt      int64           `msgpack:"saved_at"` // epoch milliseconds
	Messages     []models.Record `msgpack:"messages"`
}

func NewArchive(d *models.Debate, transcript []models.Message, judgment string) *Archive {
	a := &Archive{
		Version:      archiveVersion,
		DebateId:     d.DebateId.String(),
		InitialClaim: d.InitialClaim,
		Context:      d.Context,
		MaxRounds:    d.MaxRounds,
		Judgment:     judgment,
		SavedAt:      time.Now().UnixMilli(),
		Messages:     make([]models.Record, 0, len(transcript)),
	}
	if v, ok := models.FindVerifier(d.Participants); ok {
		a.Verifier = v.Name
	}
	for _, m := range transcript {
		a.Messages = append(a.Messages, m.Record())
	}
	return a
}

// Transcript validates and rebuilds the archived messages.
func (a *Archive) Transcript() ([]models.Message, error) {
	out := make([]models.Message, 0, len(a.Messages))
	for i, r := range a.Messages {
		m, err := models.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("archived message %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func Encode(a *Archive) ([]byte, error) {
	buffer := new(bytes.Buffer)
	if err := msgpack.NewEncoder(buffer).Encode(a); err != nil {
		return nil, fmt.Errorf("msgpack failed to encode archive: %w", err)
	}
	return buffer.Bytes(), nil
}

func Decode(data []byte) (*Archive, error) {
	var a Archive
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("msgpack failed to decode archive: %w", err)
	}
	if a.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version=%d", a.Version)
	}
	return &a, nil
}

func Save(path string, a *Archive) error {
	data, err := Encode(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Load(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
