// Package helprequests implements the help request workflow: public
// submission, admin triage, and volunteer assignment.
package helprequests

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
	MsgRequestNotFound   = "Help request not found"
	MsgVolunteerNotFound = "Approved volunteer not found"
	MsgInvalidStatus     = "Invalid status value"
)

// maxTaskLen bounds a volunteer's assigned task text.
const maxTaskLen = 140

// RequestStore is the persistence the service needs for help requests.
type RequestStore interface {
	Create(ctx context.Context, hr models.HelpRequest) (models.HelpRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.HelpRequest, error)
	List(ctx context.Context, f models.HelpRequestFilter) ([]models.HelpRequest, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.HelpRequestUpdate) (models.HelpRequest, error)
}

// VolunteerStore is the persistence the service needs for volunteers.
type VolunteerStore interface {
	GetAssignable(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Volunteer, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.VolunteerUpdate) (models.Volunteer, error)
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, actor models.Actor, action, details string) error
}

// Service coordinates help requests and the volunteers assigned to them.
type Service struct {
	requests   RequestStore
	volunteers VolunteerStore
	audit      Auditor
	log        *zap.Logger
}

// New creates a help request service.
func New(requests RequestStore, volunteers VolunteerStore, audit Auditor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{requests: requests, volunteers: volunteers, audit: audit, log: log}
}

// View is a help request with the assigned volunteer's contact details.
type View struct {
	models.HelpRequest
	AssignedVolunteer *models.VolunteerContact `json:"assignedVolunteer"`
}

// SubmitInput is the public help request form.
type SubmitInput struct {
	Name        string `json:"name" label:"Name" validate:"required,min=2,max=80"`
	Location    string `json:"location" label:"Location" validate:"required,max=120"`
	Contact     string `json:"contact" label:"Contact" validate:"required,max=80"`
	RequestType string `json:"requestType" label:"Request type" validate:"required,oneof=food transportation medical shelter other"`
	Urgency     string `json:"urgency" label:"Urgency" validate:"omitempty,oneof=high medium low"`
	Description string `json:"description" label:"Description" validate:"required,max=1000"`
}

func (in *SubmitInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Location = normalize.Name(in.Location)
	in.Contact = normalize.Name(in.Contact)
	in.RequestType = normalize.Status(in.RequestType)
	in.Urgency = normalize.Status(in.Urgency)
	in.Description = normalize.Name(in.Description)
}

// Submit validates and stores a new request with status new.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (View, error) {
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		return View{}, apperr.Validation(res.First())
	}
	if in.Urgency == "" {
		in.Urgency = models.UrgencyMedium
	}

	hr, err := s.requests.Create(ctx, models.HelpRequest{
		Name:        in.Name,
		Location:    in.Location,
		Contact:     in.Contact,
		RequestType: in.RequestType,
		Urgency:     in.Urgency,
		Description: in.Description,
		Status:      models.RequestStatusNew,
	})
	if err != nil {
		return View{}, apperr.Internal("Failed to save help request", err)
	}
	return View{HelpRequest: hr}, nil
}

// PublicList returns every request, newest first, with volunteer name,
// email and phone.
func (s *Service) PublicList(ctx context.Context) ([]View, error) {
	list, err := s.requests.List(ctx, models.HelpRequestFilter{})
	if err != nil {
		return nil, apperr.Internal("Failed to load help requests", err)
	}
	return s.views(ctx, list, false)
}

// AdminList returns requests matching the optional status and urgency
// filters, newest first, with full volunteer contact details.
func (s *Service) AdminList(ctx context.Context, status, urgency string) ([]View, error) {
	list, err := s.requests.List(ctx, models.HelpRequestFilter{
		Status:  normalize.Status(status),
		Urgency: normalize.Status(urgency),
	})
	if err != nil {
		return nil, apperr.Internal("Failed to load help requests", err)
	}
	return s.views(ctx, list, true)
}

// Get returns one request with full volunteer contact details.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	hr, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, hr)
}

// UpdateStatus moves a request to status. Resolving an unresolved request
// releases its volunteer; the reference is kept as history.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (View, error) {
	status = normalize.Status(status)
	if !slices.Contains(models.RequestStatuses, status) {
		return View{}, apperr.Validation(MsgInvalidStatus)
	}
	hr, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	prev := hr.Status
	hr, err = s.requests.Update(ctx, hr.ID, models.HelpRequestUpdate{Status: &status})
	if err != nil {
		return View{}, s.storeErr(err, MsgRequestNotFound)
	}
	if status == models.RequestStatusResolved && prev != models.RequestStatusResolved && hr.AssignedVolunteer != nil {
		if err := s.release(ctx, *hr.AssignedVolunteer); err != nil {
			return View{}, err
		}
	}

	details := fmt.Sprintf("Request %s status changed to %s", hr.ID.Hex(), status)
	if err := s.audit.Record(ctx, actor, activity.ActionHelpRequestStatus, details); err != nil {
		return View{}, apperr.Internal("Failed to record activity", err)
	}
	return s.view(ctx, hr)
}

// AssignVolunteer assigns volunteerID to the request, or unassigns the
// current volunteer when volunteerID is empty. A previously assigned
// volunteer is released. Concurrent assignments of the same volunteer are
// not detected; the last write wins.
func (s *Service) AssignVolunteer(ctx context.Context, actor models.Actor, id, volunteerID string) (View, error) {
	hr, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	volunteerID = normalize.Name(volunteerID)
	if volunteerID == "" {
		return s.unassign(ctx, actor, hr)
	}

	vid, err := primitive.ObjectIDFromHex(volunteerID)
	if err != nil {
		return View{}, apperr.NotFound(MsgVolunteerNotFound)
	}
	vol, err := s.volunteers.GetAssignable(ctx, vid)
	if err != nil {
		return View{}, s.storeErr(err, MsgVolunteerNotFound)
	}

	if holdsVolunteer(hr) && *hr.AssignedVolunteer != vol.ID {
		if err := s.release(ctx, *hr.AssignedVolunteer); err != nil {
			return View{}, err
		}
	}

	busy := models.AvailabilityBusy
	task := TaskLabel(hr)
	if _, err := s.volunteers.Update(ctx, vol.ID, models.VolunteerUpdate{AvailabilityStatus: &busy, AssignedTask: &task}); err != nil {
		return View{}, s.storeErr(err, MsgVolunteerNotFound)
	}

	upd := models.HelpRequestUpdate{SetVolunteer: true, Volunteer: &vol.ID}
	if hr.Status == models.RequestStatusNew {
		inProgress := models.RequestStatusInProgress
		upd.Status = &inProgress
	}
	hr, err = s.requests.Update(ctx, hr.ID, upd)
	if err != nil {
		return View{}, s.storeErr(err, MsgRequestNotFound)
	}

	details := fmt.Sprintf("Volunteer %s assigned to request %s", vol.Email, hr.ID.Hex())
	if err := s.audit.Record(ctx, actor, activity.ActionVolunteerAssigned, details); err != nil {
		return View{}, apperr.Internal("Failed to record activity", err)
	}
	return s.view(ctx, hr)
}

func (s *Service) unassign(ctx context.Context, actor models.Actor, hr models.HelpRequest) (View, error) {
	if holdsVolunteer(hr) {
		if err := s.release(ctx, *hr.AssignedVolunteer); err != nil {
			return View{}, err
		}
	}
	hr, err := s.requests.Update(ctx, hr.ID, models.HelpRequestUpdate{SetVolunteer: true})
	if err != nil {
		return View{}, s.storeErr(err, MsgRequestNotFound)
	}

	details := fmt.Sprintf("Volunteer unassigned from request %s", hr.ID.Hex())
	if err := s.audit.Record(ctx, actor, activity.ActionVolunteerUnassigned, details); err != nil {
		return View{}, apperr.Internal("Failed to record activity", err)
	}
	return View{HelpRequest: hr}, nil
}

// holdsVolunteer reports whether hr still keeps its volunteer busy. A
// resolved request released its volunteer when it was resolved.
func holdsVolunteer(hr models.HelpRequest) bool {
	return hr.AssignedVolunteer != nil && hr.Status != models.RequestStatusResolved
}

// TaskLabel is the task text a volunteer carries while assigned to hr. A long
// location can push it past the task limit; the tail is cut to fit.
func TaskLabel(hr models.HelpRequest) string {
	task := fmt.Sprintf("%s support - %s", hr.RequestType, hr.Location)
	if r := []rune(task); len(r) > maxTaskLen {
		task = string(r[:maxTaskLen])
	}
	return task
}

// release marks a volunteer available with no task. A volunteer that no
// longer exists is ignored.
func (s *Service) release(ctx context.Context, id primitive.ObjectID) error {
	available := models.AvailabilityAvailable
	empty := ""
	_, err := s.volunteers.Update(ctx, id, models.VolunteerUpdate{AvailabilityStatus: &available, AssignedTask: &empty})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.Internal("Failed to release volunteer", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (models.HelpRequest, error) {
	oid, err := primitive.ObjectIDFromHex(normalize.Name(id))
	if err != nil {
		return models.HelpRequest{}, apperr.NotFound(MsgRequestNotFound)
	}
	hr, err := s.requests.GetByID(ctx, oid)
	if err != nil {
		return models.HelpRequest{}, s.storeErr(err, MsgRequestNotFound)
	}
	return hr, nil
}

func (s *Service) storeErr(err error, notFound string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal("Database error", err)
}

func (s *Service) view(ctx context.Context, hr models.HelpRequest) (View, error) {
	views, err := s.views(ctx, []models.HelpRequest{hr}, true)
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// views attaches volunteer contacts. full adds the volunteer's availability
// and approval status for admin screens.
func (s *Service) views(ctx context.Context, list []models.HelpRequest, full bool) ([]View, error) {
	var ids []primitive.ObjectID
	for _, hr := range list {
		if hr.AssignedVolunteer != nil {
			ids = append(ids, *hr.AssignedVolunteer)
		}
	}

	contacts := map[primitive.ObjectID]models.VolunteerContact{}
	if len(ids) > 0 {
		vols, err := s.volunteers.ByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Internal("Failed to load volunteers", err)
		}
		for _, v := range vols {
			c := models.VolunteerContact{ID: v.ID, Name: v.Name, Email: v.Email, Phone: v.Phone}
			if full {
				c.AvailabilityStatus = v.AvailabilityStatus
				c.ApprovalStatus = v.ApprovalStatus
			}
			contacts[v.ID] = c
		}
	}

	out := make([]View, 0, len(list))
	for _, hr := range list {
		v := View{HelpRequest: hr}
		if hr.AssignedVolunteer != nil {
			if c, ok := contacts[*hr.AssignedVolunteer]; ok {
				v.AssignedVolunteer = &c
			}
		}
		out = append(out, v)
	}
	return out, nil
}
