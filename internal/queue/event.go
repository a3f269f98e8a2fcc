// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// UploadQueueName is the durable queue carrying upload processing jobs.
const UploadQueueName = "upload.received"

// UploadReceivedEvent is published when an upload batch lands on disk. The
// consumer performs the (stubbed) processing pass and flips the record to
// completed.
type UploadReceivedEvent struct {
	UploadID   string `json:"upload_id"`
	UserID     string `json:"user_id"`
	PageCount  int    `json:"page_count"`
	ReceivedAt string `json:"received_at"`
}
