package models

import "fmt"

// Message is one synthetic chat message. Messages are immutable once
// generated: for a fixed seed and generation parameters the message at a
// given index is always byte-identical.
type Message struct {
	ID     string `json:"id"`
	Sender Person `json:"sender"`
	Text   string `json:"text"`
	// TS is epoch milliseconds.
	TS int64 `json:"ts"`
	// ReplyTo, when set, is the id of a message at a strictly smaller index.
	ReplyTo    string      `json:"reply_to,omitempty"`
	Pinned     bool        `json:"pinned,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	// Outbound is reserved for user-composed messages; always false for
	// generated ones.
	Outbound bool `json:"outbound,omitempty"`
}

// Attachment is an optional file reference carried by a message.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Kind string `json:"kind"`
}

// Attachment kinds, classified by filename extension.
const (
	AttachmentImage    = "image"
	AttachmentVideo    = "video"
	AttachmentDocument = "document"
	AttachmentOther    = "other"
)

// MessageID returns the stable id for the message at the given index.
// Ids are 1-based so the first message is "msg_1".
func MessageID(index int) string {
	return fmt.Sprintf("msg_%d", index+1)
}
