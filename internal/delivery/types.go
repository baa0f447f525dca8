package delivery

import "time"

// Task is the cross-process "send this image" request. It is written once by
// the requesting process and read once by the single consumer.
type Task struct {
	ID        string    `json:"id"`
	TargetID  string    `json:"target_id"`
	ImageB64  string    `json:"image_b64"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is the consumer's verdict on a task. It lives in the result store
// under a short TTL and is deleted on first read.
type Result struct {
	TaskID      string    `json:"task_id"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
