package chat

import "time"

// Session captures one user's in-progress conversation with a persona.
// Transcript[0] is always the persona's seed instruction.
type Session struct {
	ID         string    `json:"id"`
	Persona    string    `json:"persona"`
	Transcript []Message `json:"transcript"`
	Fields     *Fields   `json:"fields"`
	Turns      int       `json:"turns"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewSession seeds a session with the persona instruction and an empty field map.
func NewSession(id, personaID, instruction string, fieldNames []string, now time.Time) *Session {
	transcript := make([]Message, 0, 16)
	transcript = append(transcript, Message{Role: RoleSystem, Content: instruction, CreatedAt: now})

	return &Session{
		ID:         id,
		Persona:    personaID,
		Transcript: transcript,
		Fields:     NewFields(fieldNames...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Append adds an entry to the end of the transcript.
func (s *Session) Append(role Role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content, CreatedAt: at})
}

// Window returns a copy of the last n transcript entries.
func (s *Session) Window(n int) []Message {
	if n <= 0 || n > len(s.Transcript) {
		n = len(s.Transcript)
	}
	window := make([]Message, n)
	copy(window, s.Transcript[len(s.Transcript)-n:])
	return window
}

// History returns a copy of the whole transcript.
func (s *Session) History() []Message {
	return s.Window(len(s.Transcript))
}

// Complete reports whether every declared field holds a value.
func (s *Session) Complete() bool {
	return s.Fields.Complete()
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cloned := *s
	cloned.Transcript = s.History()
	cloned.Fields = s.Fields.Clone()
	return &cloned
}
