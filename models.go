package main

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SubmissionKind string

const (
	KindCustomBooking  SubmissionKind = "CustomBooking"
	KindContactMessage SubmissionKind = "ContactMessage"
)

// Submission is one immutable record in the shared collection. The ID and
// CreatedAt are assigned by the store on write and never client-supplied.
// Kind partitions the collection into the two logical streams the admin view
// consumes. There is no update or delete path anywhere in the codebase.
type Submission struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	CollectionPath string         `gorm:"index"`
	Kind           SubmissionKind `gorm:"index"`
	SubmitterID    *string
	Status         string

	Name  string
	Email string

	// CustomBooking fields
	ShoeModel         string
	DesignDescription string `gorm:"type:text"`
	BudgetRange       string
	Attachment        datatypes.JSON `gorm:"type:json"`

	// ContactMessage fields
	Message string `gorm:"type:text"`
}

// AttachmentDescriptor records metadata about a file offered on the custom
// form. Only the descriptor is stored; the bytes are never transferred.
type AttachmentDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// AttachmentInfo decodes the stored descriptor, or nil if the record has
// none. Value receiver so templates can call it on ranged records.
func (s Submission) AttachmentInfo() *AttachmentDescriptor {
	if len(s.Attachment) == 0 {
		return nil
	}
	var d AttachmentDescriptor
	if err := json.Unmarshal(s.Attachment, &d); err != nil {
		return nil
	}
	return &d
}

// AdminUser backs delegated (Mode B) admin sign-in.
type AdminUser struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	Email        string `gorm:"uniqueIndex"`
	PasswordHash []byte
	SessionToken string `gorm:"index"`
}
