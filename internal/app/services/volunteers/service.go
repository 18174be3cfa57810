// Package volunteers implements volunteer signup and the admin lifecycle:
// approval, availability, and removal.
package volunteers

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	MsgNotFound            = "Volunteer not found"
	MsgInvalidApproval     = "Invalid approval status"
	MsgInvalidAvailability = "Invalid availability status"
	MsgMissingFields       = "Missing required volunteer fields"
)

const (
	maxSkills  = 25
	maxTaskLen = 140
)

// Store is the volunteer persistence the service needs.
type Store interface {
	Create(ctx context.Context, v models.Volunteer) (models.Volunteer, error)
	GetActive(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error)
	List(ctx context.Context, f models.VolunteerFilter) ([]models.Volunteer, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.VolunteerUpdate) (models.Volunteer, error)
}

// RequestDetacher clears a volunteer from open help requests.
type RequestDetacher interface {
	DetachVolunteer(ctx context.Context, volunteerID primitive.ObjectID) (int64, error)
}

// Tx runs fn atomically when the backend supports it.
type Tx interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, actor models.Actor, action, details string) error
}

// Service manages volunteers.
type Service struct {
	store    Store
	requests RequestDetacher
	tx       Tx
	audit    Auditor
	log      *zap.Logger
}

// New creates a volunteer service.
func New(store Store, requests RequestDetacher, tx Tx, audit Auditor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, requests: requests, tx: tx, audit: audit, log: log}
}

// SignupInput is the public volunteer form and the base of the admin form.
type SignupInput struct {
	Name         string   `json:"name" label:"Name" validate:"required,min=2,max=80"`
	Email        string   `json:"email" label:"Email" validate:"required,email,max=160"`
	Phone        string   `json:"phone" label:"Phone" validate:"required,max=30"`
	Availability string   `json:"availability" label:"Availability" validate:"required,max=100"`
	Location     string   `json:"location" label:"Location" validate:"required,max=120"`
	Skills       []string `json:"skills" label:"Skills" validate:"max=25,dive,max=60"`
}

func (in *SignupInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Phone = normalize.Name(in.Phone)
	in.Availability = normalize.Name(in.Availability)
	in.Location = normalize.Name(in.Location)
	in.Skills = normalize.List(in.Skills, 0)
}

func (in SignupInput) volunteer(approval, availability string) models.Volunteer {
	return models.Volunteer{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Skills:             in.Skills,
		Availability:       in.Availability,
		Location:           in.Location,
		ApprovalStatus:     approval,
		AvailabilityStatus: availability,
		IsActive:           true,
	}
}

// Signup registers a volunteer pending approval.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.Volunteer, error) {
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Volunteer{}, apperr.Validation(res.First())
	}
	v, err := s.store.Create(ctx, in.volunteer(models.ApprovalPending, models.AvailabilityAvailable))
	if err != nil {
		return models.Volunteer{}, apperr.Internal("Failed to save volunteer", err)
	}
	return v, nil
}

// PublicList returns active, approved volunteers, newest first.
func (s *Service) PublicList(ctx context.Context) ([]models.Volunteer, error) {
	return s.list(ctx, models.VolunteerFilter{ActiveOnly: true, ApprovalStatus: models.ApprovalApproved})
}

// AdminList returns active volunteers with optional approval and
// availability filters, newest first.
func (s *Service) AdminList(ctx context.Context, approval, availability string) ([]models.Volunteer, error) {
	return s.list(ctx, models.VolunteerFilter{
		ActiveOnly:         true,
		ApprovalStatus:     normalize.Status(approval),
		AvailabilityStatus: normalize.Status(availability),
	})
}

func (s *Service) list(ctx context.Context, f models.VolunteerFilter) ([]models.Volunteer, error) {
	list, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to load volunteers", err)
	}
	return list, nil
}

// CreateInput is the admin volunteer form. Approval defaults to approved
// and availability to available; other values fall back to the defaults.
type CreateInput struct {
	SignupInput
	ApprovalStatus     string `json:"approvalStatus"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

// Create adds a volunteer on behalf of an admin.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (models.Volunteer, error) {
	in.SignupInput.normalize()
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Availability == "" || in.Location == "" {
		return models.Volunteer{}, apperr.Validation(MsgMissingFields)
	}
	if res := inputval.Validate(in.SignupInput); res.HasErrors() {
		return models.Volunteer{}, apperr.Validation(res.First())
	}

	approval := models.ApprovalApproved
	switch normalize.Status(in.ApprovalStatus) {
	case models.ApprovalRejected:
		approval = models.ApprovalRejected
	case models.ApprovalPending:
		approval = models.ApprovalPending
	}
	availability := models.AvailabilityAvailable
	if normalize.Status(in.AvailabilityStatus) == models.AvailabilityBusy {
		availability = models.AvailabilityBusy
	}

	v, err := s.store.Create(ctx, in.SignupInput.volunteer(approval, availability))
	if err != nil {
		return models.Volunteer{}, apperr.Internal("Failed to save volunteer", err)
	}
	if err := s.record(ctx, actor, activity.ActionVolunteerCreated, fmt.Sprintf("Volunteer %s created by admin", v.Email)); err != nil {
		return models.Volunteer{}, err
	}
	return v, nil
}

// SetApproval changes approval. Any status other than approved also frees
// the volunteer (available, no task).
func (s *Service) SetApproval(ctx context.Context, actor models.Actor, id, status string) (models.Volunteer, error) {
	status = normalize.Status(status)
	if !slices.Contains(models.ApprovalStatuses, status) {
		return models.Volunteer{}, apperr.Validation(MsgInvalidApproval)
	}
	v, err := s.loadActive(ctx, id)
	if err != nil {
		return models.Volunteer{}, err
	}

	upd := models.VolunteerUpdate{ApprovalStatus: &status}
	if status != models.ApprovalApproved {
		available, empty := models.AvailabilityAvailable, ""
		upd.AvailabilityStatus = &available
		upd.AssignedTask = &empty
	}
	v, err = s.update(ctx, v.ID, upd)
	if err != nil {
		return models.Volunteer{}, err
	}
	if err := s.record(ctx, actor, activity.ActionVolunteerApproval, fmt.Sprintf("Volunteer %s approval set to %s", v.Email, status)); err != nil {
		return models.Volunteer{}, err
	}
	return v, nil
}

// SetAvailability changes availability. The task is kept only when busy.
func (s *Service) SetAvailability(ctx context.Context, actor models.Actor, id, status, task string) (models.Volunteer, error) {
	status = normalize.Status(status)
	if !slices.Contains(models.AvailabilityStatuses, status) {
		return models.Volunteer{}, apperr.Validation(MsgInvalidAvailability)
	}
	task = normalize.Name(task)
	if status != models.AvailabilityBusy {
		task = ""
	}
	if r := []rune(task); len(r) > maxTaskLen {
		return models.Volunteer{}, apperr.Validation(fmt.Sprintf("Assigned task must be at most %d characters.", maxTaskLen))
	}

	v, err := s.loadActive(ctx, id)
	if err != nil {
		return models.Volunteer{}, err
	}
	v, err = s.update(ctx, v.ID, models.VolunteerUpdate{AvailabilityStatus: &status, AssignedTask: &task})
	if err != nil {
		return models.Volunteer{}, err
	}
	if err := s.record(ctx, actor, activity.ActionVolunteerAvailability, fmt.Sprintf("Volunteer %s availability set to %s", v.Email, status)); err != nil {
		return models.Volunteer{}, err
	}
	return v, nil
}

// Remove deactivates a volunteer. Open requests (new or in-progress) that
// reference the volunteer are reset to new and unassigned first; both steps
// share a transaction when the backend supports one. Returns the id.
func (s *Service) Remove(ctx context.Context, actor models.Actor, id string) (primitive.ObjectID, error) {
	v, err := s.loadActive(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}

	err = s.tx.Run(ctx, func(ctx context.Context) error {
		n, err := s.requests.DetachVolunteer(ctx, v.ID)
		if err != nil {
			return err
		}
		inactive, available, empty := false, models.AvailabilityAvailable, ""
		if _, err := s.store.Update(ctx, v.ID, models.VolunteerUpdate{
			IsActive:           &inactive,
			AvailabilityStatus: &available,
			AssignedTask:       &empty,
		}); err != nil {
			return err
		}
		s.log.Debug("volunteer removed",
			zap.String("volunteer_id", v.ID.Hex()),
			zap.Int64("requests_detached", n))
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, storeErr(err)
	}

	if err := s.record(ctx, actor, activity.ActionVolunteerRemoved, fmt.Sprintf("Volunteer %s removed by admin", v.Email)); err != nil {
		return primitive.NilObjectID, err
	}
	return v.ID, nil
}

func (s *Service) loadActive(ctx context.Context, id string) (models.Volunteer, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return models.Volunteer{}, apperr.NotFound(MsgNotFound)
	}
	v, err := s.store.GetActive(ctx, oid)
	if err != nil {
		return models.Volunteer{}, storeErr(err)
	}
	return v, nil
}

func (s *Service) update(ctx context.Context, id primitive.ObjectID, upd models.VolunteerUpdate) (models.Volunteer, error) {
	v, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return models.Volunteer{}, storeErr(err)
	}
	return v, nil
}

func (s *Service) record(ctx context.Context, actor models.Actor, action, details string) error {
	if err := s.audit.Record(ctx, actor, action, details); err != nil {
		return apperr.Internal("Failed to record activity", err)
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(MsgNotFound)
	}
	return apperr.Internal("Database error", err)
}
