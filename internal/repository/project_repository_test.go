package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petermazzocco/renovation-portal/internal/testutil"
	"github.com/petermazzocco/renovation-portal/models"
)

func seedProject(t *testing.T, repo *GormProjectRepository, number string, customerID *uint, status models.ProjectStatus) *models.Project {
	t.Helper()
	p := &models.Project{
		ProjectNumber: number,
		CustomerID:    customerID,
		ProjectType:   models.ProjectTypeFlooring,
		Services:      "Tile,Carpet",
		Status:        status,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestGormProjectRepository_DeleteRemovesMessagesAndUploads(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()
	customer := testutil.SeedUser(t, db, "c@example.com", models.RoleCustomer)

	doomed := seedProject(t, repo, "PROJ-AAAA0001", &customer.ID, models.ProjectStatusPendingSchedule)
	kept := seedProject(t, repo, "PROJ-AAAA0002", &customer.ID, models.ProjectStatusPendingSchedule)

	for _, p := range []*models.Project{doomed, kept} {
		require.NoError(t, repo.AddMessage(ctx, &models.ProjectMessage{ProjectID: p.ID, Sender: models.RoleAdmin, Content: "hello"}))
		require.NoError(t, repo.AddUpload(ctx, &models.ProjectUpload{ProjectID: p.ID, Filename: "plan.pdf"}))
	}

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	_, err := repo.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var msgCount, uploadCount int64
	require.NoError(t, db.Model(&models.ProjectMessage{}).Where("project_id = ?", doomed.ID).Count(&msgCount).Error)
	require.NoError(t, db.Model(&models.ProjectUpload{}).Where("project_id = ?", doomed.ID).Count(&uploadCount).Error)
	assert.Zero(t, msgCount)
	assert.Zero(t, uploadCount)

	msgs, err := repo.ListMessages(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	assert.ErrorIs(t, repo.Delete(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestGormProjectRepository_ScheduleRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p := seedProject(t, repo, "PROJ-BBBB0001", nil, models.ProjectStatusPendingSchedule)

	loaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Schedule())

	schedule := map[string]string{"Tile": "2026-11-02"}
	require.NoError(t, repo.UpdateSchedule(ctx, p.ID, schedule, models.ProjectStatusWaitingScheduleApproval))

	loaded, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule, loaded.Schedule())
	assert.Equal(t, models.ProjectStatusWaitingScheduleApproval, loaded.Status)
}

func TestGormProjectRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()
	alice := testutil.SeedUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := testutil.SeedUser(t, db, "bob@example.com", models.RoleCustomer)

	seedProject(t, repo, "PROJ-C0000001", &alice.ID, models.ProjectStatusPendingSchedule)
	seedProject(t, repo, "PROJ-C0000002", &alice.ID, models.ProjectStatusCompleted)
	seedProject(t, repo, "PROJ-C0000003", &bob.ID, models.ProjectStatusScheduleApproved)
	seedProject(t, repo, "PROJ-C0000004", nil, models.ProjectStatusWaitingAssignment)

	all, err := repo.ListByStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	inProgress, err := repo.ListByStatuses(ctx, models.InProgressStatuses...)
	require.NoError(t, err)
	assert.Len(t, inProgress, 2)

	aliceOpen, err := repo.ListByCustomer(ctx, alice.ID, models.InProgressStatuses...)
	require.NoError(t, err)
	require.Len(t, aliceOpen, 1)
	assert.Equal(t, "PROJ-C0000001", aliceOpen[0].ProjectNumber)

	aliceAll, err := repo.ListByCustomer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceAll, 2)
}

func TestGormProjectRepository_DuplicateNumberIsRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProjectRepository(db)

	seedProject(t, repo, "PROJ-DUPE0001", nil, models.ProjectStatusWaitingAssignment)

	err := repo.Create(context.Background(), &models.Project{
		ProjectNumber: "PROJ-DUPE0001",
		ProjectType:   models.ProjectTypePainting,
		Services:      "Patching",
		Status:        models.ProjectStatusWaitingAssignment,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
