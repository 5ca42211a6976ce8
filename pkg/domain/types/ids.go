package types

// SessionID identifies a user diagnosis session. Sessions are owned by the
// upstream diagnosis flow; this engine only references them.
type SessionID int64

// PracticeCardID identifies a practice card in the catalog
type PracticeCardID int64
