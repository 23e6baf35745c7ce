package domain

// Snapshot is the external-facing projection of one session. It is fully
// serializable and never aliases the machine's own state: Context is a deep
// copy and CurrentState is the rendered path, not the State value.
type Snapshot struct {
	SessionID    string       `json:"sessionId"`
	CurrentState string       `json:"currentState"`
	CurrentFrame string       `json:"currentFrame"`
	Context      FrameContext `json:"context"`
}
