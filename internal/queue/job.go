package queue

import "encoding/json"

// Job is one unit of deferred work on the notification queue. The
// payload is kept raw so the queue layer never depends on the event
// types it carries; workers decode it based on Type.
type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Priority  int             `json:"priority"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	ErrorMsg  string          `json:"error_msg,omitempty"`
	CreatedAt int64           `json:"created_at"`

	// ExpireAt bounds retries: once passed, the job goes to the DLQ
	// regardless of remaining attempts.
	ExpireAt int64 `json:"expired_at"`
}

// MustMarshal encodes a payload for embedding in a Job. Returns nil on
// encode failure, which workers surface as an unmarshal error and bury.
func MustMarshal(payload any) json.RawMessage {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return b
}
