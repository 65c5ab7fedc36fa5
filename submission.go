package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"solecraft/constants"

	"gorm.io/datatypes"
)

// ValidationError rejects a form before any store write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// WriteRejectedError wraps a store-level write failure; the message is passed
// through opaquely for display.
type WriteRejectedError struct {
	Cause error
}

func (e *WriteRejectedError) Error() string {
	return "submission was rejected: " + e.Cause.Error()
}

func (e *WriteRejectedError) Unwrap() error {
	return e.Cause
}

// BookingInput carries the custom-design form fields.
type BookingInput struct {
	Name              string
	Email             string
	ShoeModel         string
	DesignDescription string
	BudgetRange       string
	Attachment        *AttachmentDescriptor
}

// ContactInput carries the contact form fields.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// SubmissionService shapes form input into records, stamps them with the
// submitter identity, and makes a single write attempt per user action. No
// retries, no timeouts of its own.
type SubmissionService struct {
	store      CollectionStore
	collection string
	cache      *ListingCache
	notify     func(Submission) // optional, called after each accepted write
}

func NewSubmissionService(store CollectionStore, collection string, cache *ListingCache, notify func(Submission)) *SubmissionService {
	return &SubmissionService{store: store, collection: collection, cache: cache, notify: notify}
}

// SubmitCustomBooking validates and persists one custom-design request,
// returning the store-assigned id. On any error the caller keeps its form
// state so resubmission is possible.
func (s *SubmissionService) SubmitCustomBooking(ctx context.Context, submitterID string, in BookingInput) (string, error) {
	if err := validateBooking(in); err != nil {
		return "", err
	}

	rec := Submission{
		Kind:              KindCustomBooking,
		Status:            constants.SUBMISSION_STATUS_NEW,
		Name:              in.Name,
		Email:             in.Email,
		ShoeModel:         in.ShoeModel,
		DesignDescription: in.DesignDescription,
		BudgetRange:       in.BudgetRange,
	}
	if submitterID != "" {
		rec.SubmitterID = &submitterID
	}
	if in.Attachment != nil {
		raw, err := json.Marshal(in.Attachment)
		if err != nil {
			return "", &ValidationError{Field: "attachment", Reason: "unreadable descriptor"}
		}
		rec.Attachment = datatypes.JSON(raw)
	}

	return s.append(ctx, rec)
}

// SubmitContactMessage validates and persists one contact message.
func (s *SubmissionService) SubmitContactMessage(ctx context.Context, submitterID string, in ContactInput) (string, error) {
	if err := validateContact(in); err != nil {
		return "", err
	}

	rec := Submission{
		Kind:    KindContactMessage,
		Status:  constants.SUBMISSION_STATUS_NEW,
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}
	if submitterID != "" {
		rec.SubmitterID = &submitterID
	}

	return s.append(ctx, rec)
}

// ListRecentSubmissions returns the most recent records, newest first,
// bounded by the listing limit. An unreachable or unconfigured store yields
// an empty slice, never an error; callers cannot tell "no data yet" from
// "unavailable".
func (s *SubmissionService) ListRecentSubmissions(ctx context.Context) []Submission {
	if s.cache != nil {
		if records, ok := s.cache.Get(s.collection); ok {
			return records
		}
	}

	records, err := s.store.ListRecords(ctx, s.collection, "created_at", constants.MAX_SUBMISSIONS_TO_SHOW)
	if err != nil {
		return nil
	}
	if s.cache != nil {
		s.cache.Set(s.collection, records)
	}
	return records
}

func (s *SubmissionService) append(ctx context.Context, rec Submission) (string, error) {
	id, err := s.store.AddRecord(ctx, s.collection, &rec)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return "", err
		}
		return "", &WriteRejectedError{Cause: err}
	}

	if s.cache != nil {
		s.cache.Invalidate(s.collection)
	}
	if s.notify != nil {
		go s.notify(rec)
	}
	return id, nil
}

func validateBooking(in BookingInput) error {
	if err := requireField("name", in.Name); err != nil {
		return err
	}
	if err := requireField("email", in.Email); err != nil {
		return err
	}
	if err := requireField("shoe model", in.ShoeModel); err != nil {
		return err
	}
	if err := requireField("design description", in.DesignDescription); err != nil {
		return err
	}
	if len(in.DesignDescription) > constants.MAX_DESIGN_BRIEF_LENGTH {
		return &ValidationError{Field: "design description", Reason: "too long"}
	}
	if err := requireField("budget range", in.BudgetRange); err != nil {
		return err
	}
	if !validBudgetRange(in.BudgetRange) {
		return &ValidationError{Field: "budget range", Reason: "must be one of the offered ranges"}
	}
	return nil
}

func validateContact(in ContactInput) error {
	if err := requireField("name", in.Name); err != nil {
		return err
	}
	if err := requireField("email", in.Email); err != nil {
		return err
	}
	if err := requireField("message", in.Message); err != nil {
		return err
	}
	if len(in.Message) > constants.MAX_MESSAGE_LENGTH {
		return &ValidationError{Field: "message", Reason: "too long"}
	}
	return nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: name, Reason: "is required"}
	}
	return nil
}

func validBudgetRange(v string) bool {
	for _, r := range constants.BUDGET_RANGES {
		if v == r {
			return true
		}
	}
	return false
}
