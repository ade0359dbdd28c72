package application

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxResumeSize bounds resume uploads.
const MaxResumeSize int64 = 5 << 20

var (
	// ErrAttachmentTooLarge is returned when an attachment exceeds MaxResumeSize.
	ErrAttachmentTooLarge = errors.New("application: attachment too large")
	// ErrAttachmentType is returned for extensions outside the accepted list.
	ErrAttachmentType = errors.New("application: attachment type not accepted")
)

var acceptedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AcceptedExtensions returns the file extensions accepted for resumes.
func AcceptedExtensions() []string {
	return []string{".pdf", ".doc", ".docx"}
}

// Attachment references an uploaded file. Data is never serialized into the
// JSON payload; transports send it through a separate binary channel.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// NewAttachment builds an attachment from raw bytes, filling size and content
// type from the file name when absent, and validates it.
func NewAttachment(name, contentType string, data []byte) (*Attachment, error) {
	a := &Attachment{
		Name:        filepath.Base(name),
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	if a.ContentType == "" || a.ContentType == "application/octet-stream" {
		a.ContentType = acceptedExtensions[strings.ToLower(filepath.Ext(a.Name))]
	}
	if err := ValidateAttachment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ValidateAttachment enforces the size cap and extension allow-list. A nil
// attachment is valid (the resume is optional).
func ValidateAttachment(a *Attachment) error {
	if a == nil {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(a.Name))
	if _, ok := acceptedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %q", ErrAttachmentType, a.Name)
	}
	if a.Size > MaxResumeSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, a.Size, MaxResumeSize)
	}
	return nil
}

func (a *Attachment) same(other *Attachment) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Name == other.Name &&
		a.ContentType == other.ContentType &&
		a.Size == other.Size &&
		bytes.Equal(a.Data, other.Data)
}

func (a *Attachment) clone() *Attachment {
	if a == nil {
		return nil
	}
	out := *a
	if a.Data != nil {
		out.Data = append([]byte{}, a.Data...)
	}
	return &out
}
