package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/petermazzocco/renovation-portal/models"
)

type EstimateRepository interface {
	Create(ctx context.Context, estimate *models.EstimateRequest) error
	GetByID(ctx context.Context, id uint) (*models.EstimateRequest, error)
	// UpdatePricing stores the priced document and the resulting status.
	UpdatePricing(ctx context.Context, id uint, pdf string, status models.EstimateStatus) error
	// Respond records the customer's decision.
	Respond(ctx context.Context, id uint, status models.EstimateStatus, response models.CustomerResponse) error
	// Approve records approval and creates project unless a project with
	// the same number already exists, in one transaction. It reports
	// whether project was created.
	Approve(ctx context.Context, id uint, project *models.Project) (bool, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.EstimateRequest, error)
	ListByStatus(ctx context.Context, status models.EstimateStatus) ([]models.EstimateRequest, error)
	ListAll(ctx context.Context) ([]models.EstimateRequest, error)
}

type GormEstimateRepository struct {
	db *gorm.DB
}

func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

func (r *GormEstimateRepository) Create(ctx context.Context, estimate *models.EstimateRequest) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(estimate).Error
}

func (r *GormEstimateRepository) GetByID(ctx context.Context, id uint) (*models.EstimateRequest, error) {
	var e models.EstimateRequest
	if err := r.db.WithContext(ctx).Preload("Customer").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEstimateRepository) UpdatePricing(ctx context.Context, id uint, pdf string, status models.EstimateStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.EstimateRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"estimate_pdf": pdf,
			"status":       status,
		}).
		Error
}

func (r *GormEstimateRepository) Respond(
	ctx context.Context,
	id uint,
	status models.EstimateStatus,
	response models.CustomerResponse,
) error {
	return r.db.WithContext(ctx).
		Model(&models.EstimateRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            status,
			"customer_response": response,
		}).
		Error
}

func (r *GormEstimateRepository) Approve(ctx context.Context, id uint, project *models.Project) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.EstimateRequest{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":            models.EstimateStatusApproved,
				"customer_response": models.CustomerResponseApproved,
			}).Error
		if err != nil {
			return err
		}

		var existing models.Project
		err = tx.Where("project_number = ?", project.ProjectNumber).First(&existing).Error
		switch {
		case err == nil:
			*project = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// A concurrent approval that loses the race fails here on the
		// unique project_number index.
		if err := tx.Omit("Customer", "Messages", "Uploads").Create(project).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *GormEstimateRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.EstimateRequest, error) {
	var estimates []models.EstimateRequest
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("timestamp DESC, id DESC").
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

func (r *GormEstimateRepository) ListByStatus(ctx context.Context, status models.EstimateStatus) ([]models.EstimateRequest, error) {
	var estimates []models.EstimateRequest
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("status = ?", status).
		Order("timestamp ASC, id ASC").
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

func (r *GormEstimateRepository) ListAll(ctx context.Context) ([]models.EstimateRequest, error) {
	var estimates []models.EstimateRequest
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("timestamp DESC, id DESC").
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}
