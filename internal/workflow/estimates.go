package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// MaxEstimateImages is the number of photos kept per estimate request.
const MaxEstimateImages = 5

type SubmitEstimateInput struct {
	ProjectType    models.ProjectType
	Services       []string
	TotalSqft      *int
	Details        string
	ImageFilenames []string
}

// ApprovalResult is what a customer's approval produced.
type ApprovalResult struct {
	Estimate       *models.EstimateRequest
	Project        *models.Project
	ProjectCreated bool
}

// EstimateService drives an estimate request through
// Waiting Estimate -> Estimate Received -> Estimate Approved | Declined.
type EstimateService struct {
	estimates repository.EstimateRepository
	newNumber NumberGenerator
}

// NewEstimateService builds the service. A nil generator uses
// NewEstimateNumber.
func NewEstimateService(estimates repository.EstimateRepository, newNumber NumberGenerator) *EstimateService {
	if newNumber == nil {
		newNumber = NewEstimateNumber
	}
	return &EstimateService{estimates: estimates, newNumber: newNumber}
}

// Submit creates a new request in Waiting Estimate owned by the actor.
func (s *EstimateService) Submit(ctx context.Context, actor access.Actor, in SubmitEstimateInput) (*models.EstimateRequest, error) {
	if err := access.Authorize(actor, access.AnyUser()); err != nil {
		return nil, err
	}

	services, err := validateServices(in.ProjectType, in.Services)
	if err != nil {
		return nil, err
	}
	if err := validateSqft(in.TotalSqft); err != nil {
		return nil, err
	}
	if len(in.ImageFilenames) > MaxEstimateImages {
		return nil, fmt.Errorf("%w: at most %d images", utils.ErrTooManyImages, MaxEstimateImages)
	}

	var sketch string
	if len(in.ImageFilenames) > 0 {
		sketch = in.ImageFilenames[0]
	}

	est := &models.EstimateRequest{
		EstimateNumber: s.newNumber(),
		CustomerID:     actor.UserID,
		ProjectType:    in.ProjectType,
		Services:       models.JoinList(services),
		TotalSqft:      in.TotalSqft,
		Details:        strings.TrimSpace(in.Details),
		SketchFilename: sketch,
		ImageFilenames: models.JoinList(in.ImageFilenames),
		Status:         models.EstimateStatusWaiting,
	}
	if err := s.estimates.Create(ctx, est); err != nil {
		return nil, fmt.Errorf("create estimate: %w", utils.TranslateDBError(err))
	}

	utils.Logger.WithFields(logrus.Fields{
		"estimate": est.EstimateNumber,
		"customer": actor.UserID,
	}).Info("Estimate request submitted")
	return est, nil
}

// Get returns an estimate to an admin or its owner.
func (s *EstimateService) Get(ctx context.Context, actor access.Actor, id uint) (*models.EstimateRequest, error) {
	est, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Participant(&est.CustomerID)); err != nil {
		return nil, err
	}
	return est, nil
}

// AttachPricing stores the admin's priced document. Re-uploading replaces
// the document; the status only moves to Estimate Received while the
// customer has not answered yet.
func (s *EstimateService) AttachPricing(ctx context.Context, actor access.Actor, id uint, pdf string) (*models.EstimateRequest, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	est, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(pdf) == "" {
		return nil, fmt.Errorf("%w: estimate document is required", utils.ErrValidation)
	}

	status := est.Status
	if status == models.EstimateStatusWaiting || status == models.EstimateStatusReceived {
		status = models.EstimateStatusReceived
	}
	if err := s.estimates.UpdatePricing(ctx, est.ID, pdf, status); err != nil {
		return nil, fmt.Errorf("update pricing: %w", utils.TranslateDBError(err))
	}

	utils.Logger.WithFields(logrus.Fields{
		"estimate": est.EstimateNumber,
		"document": pdf,
		"status":   status,
	}).Info("Estimate priced")
	return s.load(ctx, id)
}

// Approve accepts the priced estimate and spawns its project. Approving an
// already approved estimate never creates a second project.
func (s *EstimateService) Approve(ctx context.Context, actor access.Actor, id uint) (*ApprovalResult, error) {
	est, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Owner(&est.CustomerID)); err != nil {
		return nil, err
	}
	switch est.Status {
	case models.EstimateStatusReceived, models.EstimateStatusApproved:
	default:
		return nil, fmt.Errorf("%w: cannot approve an estimate in %q", utils.ErrInvalidTransition, est.Status)
	}

	project := projectFromEstimate(est)
	created, err := s.estimates.Approve(ctx, est.ID, project)
	if err != nil {
		return nil, fmt.Errorf("approve estimate: %w", utils.TranslateDBError(err))
	}

	utils.Logger.WithFields(logrus.Fields{
		"estimate": est.EstimateNumber,
		"project":  project.ProjectNumber,
		"created":  created,
	}).Info("Estimate approved")

	est, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ApprovalResult{Estimate: est, Project: project, ProjectCreated: created}, nil
}

// Decline is terminal. Declining twice is a no-op.
func (s *EstimateService) Decline(ctx context.Context, actor access.Actor, id uint) (*models.EstimateRequest, error) {
	est, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Owner(&est.CustomerID)); err != nil {
		return nil, err
	}
	switch est.Status {
	case models.EstimateStatusDeclined:
		return est, nil
	case models.EstimateStatusWaiting, models.EstimateStatusReceived:
	default:
		return nil, fmt.Errorf("%w: cannot decline an estimate in %q", utils.ErrInvalidTransition, est.Status)
	}

	if err := s.estimates.Respond(ctx, est.ID, models.EstimateStatusDeclined, models.CustomerResponseDeclined); err != nil {
		return nil, fmt.Errorf("decline estimate: %w", utils.TranslateDBError(err))
	}
	utils.Logger.WithField("estimate", est.EstimateNumber).Info("Estimate declined")
	return s.load(ctx, id)
}

// ListForCustomer returns the actor's own requests, newest first.
func (s *EstimateService) ListForCustomer(ctx context.Context, actor access.Actor) ([]models.EstimateRequest, error) {
	if err := access.Authorize(actor, access.AnyUser()); err != nil {
		return nil, err
	}
	list, err := s.estimates.ListByCustomer(ctx, actor.UserID)
	return list, utils.TranslateDBError(err)
}

// ListPending returns requests still waiting for a price.
func (s *EstimateService) ListPending(ctx context.Context, actor access.Actor) ([]models.EstimateRequest, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	list, err := s.estimates.ListByStatus(ctx, models.EstimateStatusWaiting)
	return list, utils.TranslateDBError(err)
}

// ListAll returns every request, newest first.
func (s *EstimateService) ListAll(ctx context.Context, actor access.Actor) ([]models.EstimateRequest, error) {
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		return nil, err
	}
	list, err := s.estimates.ListAll(ctx)
	return list, utils.TranslateDBError(err)
}

func (s *EstimateService) load(ctx context.Context, id uint) (*models.EstimateRequest, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, utils.TranslateDBError(err)
	}
	return est, nil
}

// projectFromEstimate copies the estimate into a project that inherits its
// number.
func projectFromEstimate(est *models.EstimateRequest) *models.Project {
	customerID := est.CustomerID
	p := &models.Project{
		ProjectNumber:  est.EstimateNumber,
		CustomerID:     &customerID,
		ProjectType:    est.ProjectType,
		Services:       est.Services,
		TotalSqft:      est.TotalSqft,
		Details:        est.Details,
		SketchFilename: est.SketchFilename,
		Status:         models.ProjectStatusPendingSchedule,
	}
	if c := est.Customer; c != nil {
		p.ContactName = c.FullName
		p.ContactAddress = c.Address
		p.ContactPhone = c.Phone
		p.ContactEmail = c.Email
	}
	return p
}
