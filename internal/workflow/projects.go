package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// DateLayout is the wire format of every scheduled date.
const DateLayout = "2006-01-02"

type CreateProjectInput struct {
	FullName       string
	Address        string
	Phone          string
	Email          string
	ProjectType    models.ProjectType
	Services       []string
	TotalSqft      *int
	Details        string
	SketchFilename string
}

// ScheduleField is one row of the admin scheduling form.
type ScheduleField struct {
	Service string `json:"service"`
	Date    string `json:"date"`
}

type ProjectDetail struct {
	Project  *models.Project         `json:"project"`
	Messages []models.ProjectMessage `json:"messages"`
	Uploads  []models.ProjectUpload  `json:"uploads"`
}

// TrackView is the customer's project tracker.
type TrackView struct {
	InProgress []models.Project `json:"in_progress"`
	Completed  []models.Project `json:"completed"`
}

// ManageView groups every project for the admin management page.
type ManageView struct {
	Unassigned []models.Project `json:"unassigned"`
	InProgress []models.Project `json:"in_progress"`
	Waiting    []models.Project `json:"waiting"`
	Completed  []models.Project `json:"completed"`
}

type ProjectService struct {
	projects  repository.ProjectRepository
	users     repository.UserRepository
	newNumber NumberGenerator
}

// NewProjectService builds the service. A nil generator uses
// NewProjectNumber.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, newNumber NumberGenerator) *ProjectService {
	if newNumber == nil {
		newNumber = NewProjectNumber
	}
	return &ProjectService{projects: projects, users: users, newNumber: newNumber}
}

// Create records a project the admin arranged outside the estimate flow.
// When the contact email matches a customer account the project is linked
// to it and goes straight to Pending Schedule.
func (s *ProjectService) Create(ctx context.Context, actor access.Actor, in CreateProjectInput) (*models.Project, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	services, err := validateServices(in.ProjectType, in.Services)
	if err != nil {
		return nil, err
	}
	if err := validateSqft(in.TotalSqft); err != nil {
		return nil, err
	}

	p := &models.Project{
		ProjectNumber:  s.newNumber(),
		ContactName:    strings.TrimSpace(in.FullName),
		ContactAddress: strings.TrimSpace(in.Address),
		ContactPhone:   strings.TrimSpace(in.Phone),
		ContactEmail:   repository.NormalizeEmail(in.Email),
		ProjectType:    in.ProjectType,
		Services:       models.JoinList(services),
		TotalSqft:      in.TotalSqft,
		Details:        strings.TrimSpace(in.Details),
		SketchFilename: in.SketchFilename,
		Status:         models.ProjectStatusWaitingAssignment,
	}

	customer, err := s.findCustomer(ctx, p.ContactEmail)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		p.CustomerID = &customer.ID
		p.Status = models.ProjectStatusPendingSchedule
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithFields(logrus.Fields{
		"project": p.ProjectNumber,
		"status":  p.Status,
	}).Info("Project created")
	return p, nil
}

// Assign links an unassigned project to the customer account with email.
func (s *ProjectService) Assign(ctx context.Context, actor access.Actor, id uint, email string) (*models.Project, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProjectStatusWaitingAssignment {
		return nil, fmt.Errorf("%w: project %s is already assigned", utils.ErrInvalidTransition, p.ProjectNumber)
	}

	customer, err := s.findCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: no customer account for %q", utils.ErrValidation, email)
	}

	if err := s.projects.Assign(ctx, p.ID, customer.ID, models.ProjectStatusPendingSchedule); err != nil {
		return nil, fmt.Errorf("assign project: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithFields(logrus.Fields{
		"project":  p.ProjectNumber,
		"customer": customer.ID,
	}).Info("Project assigned")
	return s.load(ctx, id)
}

// ScheduleForm returns one field per project service, prefilled with the
// current schedule.
func (s *ProjectService) ScheduleForm(ctx context.Context, actor access.Actor, id uint) (*models.Project, []ScheduleField, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	current := p.Schedule()
	services := p.ServiceList()
	fields := make([]ScheduleField, 0, len(services))
	for _, service := range services {
		fields = append(fields, ScheduleField{Service: service, Date: current[service]})
	}
	return p, fields, nil
}

// ProposeSchedule replaces schedule_data and hands the project to the
// customer for approval. Services left blank are omitted.
func (s *ProjectService) ProposeSchedule(ctx context.Context, actor access.Actor, id uint, dates map[string]string) (*models.Project, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.ProjectStatusPendingSchedule,
		models.ProjectStatusWaitingScheduleApproval,
		models.ProjectStatusScheduleApproved:
	default:
		return nil, fmt.Errorf("%w: cannot schedule a project in %q", utils.ErrInvalidTransition, p.Status)
	}

	schedule, err := BuildSchedule(p.ServiceList(), dates)
	if err != nil {
		return nil, err
	}
	if err := s.projects.UpdateSchedule(ctx, p.ID, schedule, models.ProjectStatusWaitingScheduleApproval); err != nil {
		return nil, fmt.Errorf("update schedule: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithFields(logrus.Fields{
		"project":  p.ProjectNumber,
		"services": len(schedule),
	}).Info("Schedule proposed")
	return s.load(ctx, id)
}

// BuildSchedule validates submitted dates against the project's services.
// Keys outside services are rejected; blank values are dropped.
func BuildSchedule(services []string, dates map[string]string) (map[string]string, error) {
	known := make(map[string]bool, len(services))
	for _, service := range services {
		known[service] = true
	}

	schedule := make(map[string]string, len(dates))
	seen := make(map[string]bool, len(dates))
	for service, value := range dates {
		service = strings.TrimSpace(service)
		if !known[service] {
			return nil, fmt.Errorf("%w: %q is not part of this project", utils.ErrUnknownService, service)
		}
		if seen[service] {
			return nil, fmt.Errorf("%w: %s is listed more than once", utils.ErrValidation, service)
		}
		seen[service] = true
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		day, err := time.Parse(DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: date must be YYYY-MM-DD", utils.ErrValidation, service)
		}
		schedule[service] = day.Format(DateLayout)
	}
	return schedule, nil
}

// ApproveSchedule is the customer's acceptance of the proposed dates.
func (s *ProjectService) ApproveSchedule(ctx context.Context, actor access.Actor, id uint) (*models.Project, error) {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.ProjectStatusScheduleApproved:
		return p, nil
	case models.ProjectStatusWaitingScheduleApproval:
	default:
		return nil, fmt.Errorf("%w: no schedule awaiting approval", utils.ErrInvalidTransition)
	}
	return s.transition(ctx, p, models.ProjectStatusScheduleApproved)
}

// RejectSchedule sends the project back for rescheduling. The previous
// dates stay in schedule_data.
func (s *ProjectService) RejectSchedule(ctx context.Context, actor access.Actor, id uint) (*models.Project, error) {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.ProjectStatusPendingSchedule:
		return p, nil
	case models.ProjectStatusWaitingScheduleApproval, models.ProjectStatusScheduleApproved:
	default:
		return nil, fmt.Errorf("%w: cannot request a new schedule for a project in %q", utils.ErrInvalidTransition, p.Status)
	}
	return s.transition(ctx, p, models.ProjectStatusPendingSchedule)
}

// Complete marks the work done. Completing twice is a no-op.
func (s *ProjectService) Complete(ctx context.Context, actor access.Actor, id uint) (*models.Project, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.ProjectStatusCompleted:
		return p, nil
	case models.ProjectStatusWaitingAssignment:
		return nil, fmt.Errorf("%w: assign the project before completing it", utils.ErrInvalidTransition)
	}
	return s.transition(ctx, p, models.ProjectStatusCompleted)
}

// Delete removes the project with its messages and uploads.
func (s *ProjectService) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete project: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithField("project", p.ProjectNumber).Info("Project deleted")
	return nil
}

// PostMessage appends a message; the sender is the actor's role.
func (s *ProjectService) PostMessage(ctx context.Context, actor access.Actor, id uint, content string) (*models.ProjectMessage, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Participant(p.CustomerID)); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.ErrEmptyMessage
	}

	msg := &models.ProjectMessage{ProjectID: p.ID, Sender: actor.Role, Content: content}
	if err := s.projects.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("add message: %w", utils.TranslateDBError(err))
	}
	return msg, nil
}

// AddUpload records a stored file against the project.
func (s *ProjectService) AddUpload(ctx context.Context, actor access.Actor, id uint, filename string) (*models.ProjectUpload, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: file is required", utils.ErrValidation)
	}

	upload := &models.ProjectUpload{ProjectID: p.ID, Filename: filename}
	if err := s.projects.AddUpload(ctx, upload); err != nil {
		return nil, fmt.Errorf("add upload: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithFields(logrus.Fields{
		"project": p.ProjectNumber,
		"file":    filename,
	}).Info("Project file uploaded")
	return upload, nil
}

// Get returns a project to an admin or its owner.
func (s *ProjectService) Get(ctx context.Context, actor access.Actor, id uint) (*models.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Participant(p.CustomerID)); err != nil {
		return nil, err
	}
	return p, nil
}

// Detail returns the project with its messages and uploads, newest first.
func (s *ProjectService) Detail(ctx context.Context, actor access.Actor, id uint) (*ProjectDetail, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Participant(p.CustomerID)); err != nil {
		return nil, err
	}
	messages, err := s.projects.ListMessages(ctx, p.ID)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	uploads, err := s.projects.ListUploads(ctx, p.ID)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	return &ProjectDetail{Project: p, Messages: messages, Uploads: uploads}, nil
}

// ListForCustomer returns every project owned by the actor.
func (s *ProjectService) ListForCustomer(ctx context.Context, actor access.Actor) ([]models.Project, error) {
	if err := access.Authorize(actor, access.AnyUser()); err != nil {
		return nil, err
	}
	list, err := s.projects.ListByCustomer(ctx, actor.UserID)
	return list, utils.TranslateDBError(err)
}

// Track splits the actor's projects into in-progress and completed.
func (s *ProjectService) Track(ctx context.Context, actor access.Actor) (*TrackView, error) {
	if err := access.Authorize(actor, access.AnyUser()); err != nil {
		return nil, err
	}
	inProgress, err := s.projects.ListByCustomer(ctx, actor.UserID, models.InProgressStatuses...)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	completed, err := s.projects.ListByCustomer(ctx, actor.UserID, models.ProjectStatusCompleted)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	return &TrackView{InProgress: inProgress, Completed: completed}, nil
}

// ListInProgress returns every project between assignment and completion.
func (s *ProjectService) ListInProgress(ctx context.Context, actor access.Actor) ([]models.Project, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	list, err := s.projects.ListByStatuses(ctx, models.InProgressStatuses...)
	return list, utils.TranslateDBError(err)
}

// Manage groups all projects for the admin. Projects waiting on the
// customer's schedule approval are listed apart from the rest of the
// in-progress work.
func (s *ProjectService) Manage(ctx context.Context, actor access.Actor) (*ManageView, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	view := &ManageView{}
	groups := []struct {
		dst      *[]models.Project
		statuses []models.ProjectStatus
	}{
		{&view.Unassigned, []models.ProjectStatus{models.ProjectStatusWaitingAssignment}},
		{&view.InProgress, []models.ProjectStatus{models.ProjectStatusPendingSchedule, models.ProjectStatusScheduleApproved}},
		{&view.Waiting, []models.ProjectStatus{models.ProjectStatusWaitingScheduleApproval}},
		{&view.Completed, []models.ProjectStatus{models.ProjectStatusCompleted}},
	}
	for _, g := range groups {
		list, err := s.projects.ListByStatuses(ctx, g.statuses...)
		if err != nil {
			return nil, utils.TranslateDBError(err)
		}
		*g.dst = list
	}
	return view, nil
}

func (s *ProjectService) transition(ctx context.Context, p *models.Project, to models.ProjectStatus) (*models.Project, error) {
	if err := s.projects.UpdateStatus(ctx, p.ID, to); err != nil {
		return nil, fmt.Errorf("update project status: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithFields(logrus.Fields{
		"project": p.ProjectNumber,
		"from":    p.Status,
		"to":      to,
	}).Info("Project status changed")
	return s.load(ctx, p.ID)
}

func (s *ProjectService) load(ctx context.Context, id uint) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	return p, nil
}

func (s *ProjectService) loadOwned(ctx context.Context, actor access.Actor, id uint) (*models.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Owner(p.CustomerID)); err != nil {
		return nil, err
	}
	return p, nil
}

// findCustomer returns the customer account for email, or nil when there is
// none. Admin accounts never match.
func (s *ProjectService) findCustomer(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(utils.TranslateDBError(err), utils.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if u.Role != models.RoleCustomer {
		return nil, nil
	}
	return u, nil
}
