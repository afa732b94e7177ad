package session

import "context"

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Field is one collected answer. Fields keep the order they were collected in.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session stores conversation state and collected fields for a user.
type Session struct {
	UserID int64   `json:"user_id"`
	State  State   `json:"state"`
	Fields []Field `json:"fields,omitempty"`
}

// Idle returns an empty session for the user.
func Idle(userID int64) Session {
	return Session{UserID: userID, State: StateIdle}
}

// Active reports whether a conversation is in progress.
func (s Session) Active() bool {
	return s.State != "" && s.State != StateIdle
}

// Set records value under name, replacing an earlier answer in place.
func (s *Session) Set(name, value string) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			s.Fields[i].Value = value
			return
		}
	}
	s.Fields = append(s.Fields, Field{Name: name, Value: value})
}

// Value returns the collected value for name.
func (s Session) Value(name string) (string, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy so stored sessions never share field slices.
func (s Session) Clone() Session {
	out := s
	if s.Fields != nil {
		out.Fields = append([]Field(nil), s.Fields...)
	}
	return out
}

// Store persists sessions keyed by user. Load never fails for an unknown user:
// it returns an idle session instead. Saving an idle session is equivalent to Clear.
type Store interface {
	Load(ctx context.Context, userID int64) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context, userID int64) error
}
