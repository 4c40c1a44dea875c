package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/petermazzocco/renovation-portal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	// GetByID loads the project with its customer (if any).
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetByNumber(ctx context.Context, number string) (*models.Project, error)
	UpdateStatus(ctx context.Context, id uint, status models.ProjectStatus) error
	UpdateSchedule(ctx context.Context, id uint, schedule map[string]string, status models.ProjectStatus) error
	Assign(ctx context.Context, id uint, customerID uint, status models.ProjectStatus) error
	// Delete removes the project together with its messages and uploads.
	Delete(ctx context.Context, id uint) error

	ListByStatuses(ctx context.Context, statuses ...models.ProjectStatus) ([]models.Project, error)
	ListByCustomer(ctx context.Context, customerID uint, statuses ...models.ProjectStatus) ([]models.Project, error)

	AddMessage(ctx context.Context, msg *models.ProjectMessage) error
	ListMessages(ctx context.Context, projectID uint) ([]models.ProjectMessage, error)
	AddUpload(ctx context.Context, upload *models.ProjectUpload) error
	ListUploads(ctx context.Context, projectID uint) ([]models.ProjectUpload, error)
}

type GormProjectRepository struct {
	db *gorm.DB
}

func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Customer", "Messages", "Uploads").Create(project).Error
}

func (r *GormProjectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).Preload("Customer").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProjectRepository) GetByNumber(ctx context.Context, number string) (*models.Project, error) {
	var p models.Project
	if err := r.db.WithContext(ctx).Where("project_number = ?", number).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProjectRepository) UpdateStatus(ctx context.Context, id uint, status models.ProjectStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormProjectRepository) UpdateSchedule(
	ctx context.Context,
	id uint,
	schedule map[string]string,
	status models.ProjectStatus,
) error {
	data := make(datatypes.JSONMap, len(schedule))
	for service, date := range schedule {
		data[service] = date
	}
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"schedule_data": data,
			"status":        status,
		}).
		Error
}

func (r *GormProjectRepository) Assign(ctx context.Context, id uint, customerID uint, status models.ProjectStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"customer_id": customerID,
			"status":      status,
		}).
		Error
}

func (r *GormProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectUpload{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormProjectRepository) ListByStatuses(ctx context.Context, statuses ...models.ProjectStatus) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.WithContext(ctx).Preload("Customer")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) ListByCustomer(
	ctx context.Context,
	customerID uint,
	statuses ...models.ProjectStatus,
) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) AddMessage(ctx context.Context, msg *models.ProjectMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormProjectRepository) ListMessages(ctx context.Context, projectID uint) ([]models.ProjectMessage, error) {
	var msgs []models.ProjectMessage
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("timestamp DESC, id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *GormProjectRepository) AddUpload(ctx context.Context, upload *models.ProjectUpload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *GormProjectRepository) ListUploads(ctx context.Context, projectID uint) ([]models.ProjectUpload, error) {
	var uploads []models.ProjectUpload
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("timestamp DESC, id DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}
