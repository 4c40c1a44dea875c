package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

func TestProjectService_PartialScheduleThenReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.approvedProject(t, "Old Floor Removal", "Tile", "New Baseboard Install")

	p, err := f.projects.ProposeSchedule(ctx, f.admin, p.ID, map[string]string{
		"Old Floor Removal":     "2026-11-02",
		"Tile":                  "2026-11-04",
		"New Baseboard Install": "",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusWaitingScheduleApproval, p.Status)
	assert.Equal(t, map[string]string{
		"Old Floor Removal": "2026-11-02",
		"Tile":              "2026-11-04",
	}, p.Schedule())

	p, err = f.projects.RejectSchedule(ctx, f.customer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPendingSchedule, p.Status)
	assert.Len(t, p.Schedule(), 2, "rejected dates are kept for the next proposal")

	_, fields, err := f.projects.ScheduleForm(ctx, f.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []ScheduleField{
		{Service: "Old Floor Removal", Date: "2026-11-02"},
		{Service: "Tile", Date: "2026-11-04"},
		{Service: "New Baseboard Install"},
	}, fields)
}

func TestProjectService_ProposeScheduleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.approvedProject(t, "Tile")

	_, err := f.projects.ProposeSchedule(ctx, f.admin, p.ID, map[string]string{"Roof": "2026-11-02"})
	assert.ErrorIs(t, err, utils.ErrUnknownService)
	_, err = f.projects.ProposeSchedule(ctx, f.admin, p.ID, map[string]string{"Tile": "11/02/2026"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = f.projects.ProposeSchedule(ctx, f.customer, p.ID, map[string]string{"Tile": "2026-11-02"})
	assert.ErrorIs(t, err, utils.ErrForbidden)

	reloaded, err := f.projects.Detail(ctx, f.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPendingSchedule, reloaded.Project.Status)
	assert.Empty(t, reloaded.Project.Schedule())
}

func TestProjectService_ApproveSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.approvedProject(t, "Tile")

	_, err := f.projects.ApproveSchedule(ctx, f.customer, p.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = f.projects.ProposeSchedule(ctx, f.admin, p.ID, map[string]string{"Tile": "2026-12-01"})
	require.NoError(t, err)

	_, err = f.projects.ApproveSchedule(ctx, f.stranger, p.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	p, err = f.projects.ApproveSchedule(ctx, f.customer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusScheduleApproved, p.Status)

	p, err = f.projects.ApproveSchedule(ctx, f.customer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusScheduleApproved, p.Status)
}

func TestProjectService_CompleteThenDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.approvedProject(t, "Tile")

	_, err := f.projects.PostMessage(ctx, f.customer, p.ID, "When do you start?")
	require.NoError(t, err)
	_, err = f.projects.AddUpload(ctx, f.admin, p.ID, "3f2a9c1b_layout.pdf")
	require.NoError(t, err)

	_, err = f.projects.Complete(ctx, f.customer, p.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	done, err := f.projects.Complete(ctx, f.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusCompleted, done.Status)

	again, err := f.projects.Complete(ctx, f.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusCompleted, again.Status)

	require.NoError(t, f.projects.Delete(ctx, f.admin, p.ID))
	assert.ErrorIs(t, f.projects.Delete(ctx, f.admin, p.ID), utils.ErrNotFound)

	var msgs, uploads int64
	require.NoError(t, f.db.Model(&models.ProjectMessage{}).Count(&msgs).Error)
	require.NoError(t, f.db.Model(&models.ProjectUpload{}).Count(&uploads).Error)
	assert.Zero(t, msgs)
	assert.Zero(t, uploads)
}

func TestProjectService_Messages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.approvedProject(t, "Tile")

	_, err := f.projects.PostMessage(ctx, f.stranger, p.ID, "hi")
	assert.ErrorIs(t, err, utils.ErrForbidden)
	_, err = f.projects.PostMessage(ctx, f.customer, p.ID, "   ")
	assert.ErrorIs(t, err, utils.ErrEmptyMessage)

	first, err := f.projects.PostMessage(ctx, f.customer, p.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, first.Sender)
	second, err := f.projects.PostMessage(ctx, f.admin, p.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, second.Sender)

	detail, err := f.projects.Detail(ctx, f.customer, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "second", detail.Messages[0].Content)
	assert.Equal(t, models.ProjectStatusPendingSchedule, detail.Project.Status)

	_, err = f.projects.Detail(ctx, f.stranger, p.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	_, err = f.projects.AddUpload(ctx, f.customer, p.ID, "x.pdf")
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestProjectService_ManualCreateAndAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	matched, err := f.projects.Create(ctx, f.admin, CreateProjectInput{
		FullName:    "Jane",
		Email:       " JANE@example.com ",
		ProjectType: models.ProjectTypePainting,
		Services:    []string{"Interior Painting"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPendingSchedule, matched.Status)
	require.NotNil(t, matched.CustomerID)
	assert.Equal(t, f.customer.UserID, *matched.CustomerID)
	assert.Regexp(t, `^PROJ-[0-9A-F]{8}$`, matched.ProjectNumber)

	unmatched, err := f.projects.Create(ctx, f.admin, CreateProjectInput{
		FullName:    "Walk In",
		Email:       "walkin@example.com",
		ProjectType: models.ProjectTypePainting,
		Services:    []string{"Patching"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusWaitingAssignment, unmatched.Status)
	assert.Nil(t, unmatched.CustomerID)

	_, err = f.projects.Complete(ctx, f.admin, unmatched.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
	_, err = f.projects.ProposeSchedule(ctx, f.admin, unmatched.ID, map[string]string{"Patching": "2026-11-02"})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
	_, err = f.projects.Assign(ctx, f.admin, unmatched.ID, "admin@example.com")
	assert.ErrorIs(t, err, utils.ErrValidation)

	assigned, err := f.projects.Assign(ctx, f.admin, unmatched.ID, "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPendingSchedule, assigned.Status)
	require.NotNil(t, assigned.CustomerID)
	assert.Equal(t, f.stranger.UserID, *assigned.CustomerID)

	_, err = f.projects.Assign(ctx, f.admin, unmatched.ID, "jane@example.com")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = f.projects.Create(ctx, f.customer, CreateProjectInput{ProjectType: models.ProjectTypePainting, Services: []string{"Patching"}})
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestProjectService_DuplicateNumberIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fixed := NewProjectService(f.projects.projects, f.projects.users, func() string { return "PROJ-00000001" })
	in := CreateProjectInput{ProjectType: models.ProjectTypePainting, Services: []string{"Patching"}}

	_, err := fixed.Create(ctx, f.admin, in)
	require.NoError(t, err)
	_, err = fixed.Create(ctx, f.admin, in)
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestProjectService_Views(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.approvedProject(t, "Tile")
	waiting := f.approvedProject(t, "Carpet")
	done := f.approvedProject(t, "Vinyl")
	_, err := f.projects.ProposeSchedule(ctx, f.admin, waiting.ID, map[string]string{"Carpet": "2026-11-10"})
	require.NoError(t, err)
	_, err = f.projects.Complete(ctx, f.admin, done.ID)
	require.NoError(t, err)

	track, err := f.projects.Track(ctx, f.customer)
	require.NoError(t, err)
	assert.Len(t, track.InProgress, 2)
	require.Len(t, track.Completed, 1)
	assert.Equal(t, done.ID, track.Completed[0].ID)

	other, err := f.projects.Track(ctx, f.stranger)
	require.NoError(t, err)
	assert.Empty(t, other.InProgress)

	manage, err := f.projects.Manage(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, manage.InProgress, 1)
	assert.Equal(t, pending.ID, manage.InProgress[0].ID)
	require.Len(t, manage.Waiting, 1)
	assert.Equal(t, waiting.ID, manage.Waiting[0].ID)
	assert.Len(t, manage.Completed, 1)
	assert.Empty(t, manage.Unassigned)

	inProgress, err := f.projects.ListInProgress(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, inProgress, 2)

	_, err = f.projects.Manage(ctx, f.customer)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestBuildSchedule(t *testing.T) {
	services := []string{"Demolition", "Painting"}

	got, err := BuildSchedule(services, map[string]string{" Demolition ": " 2026-01-05 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Demolition": "2026-01-05"}, got)

	got, err = BuildSchedule(services, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = BuildSchedule(services, map[string]string{"Lighting": "2026-01-05"})
	assert.ErrorIs(t, err, utils.ErrUnknownService)

	_, err = BuildSchedule(services, map[string]string{"Painting": "2026-02-30"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = BuildSchedule(services, map[string]string{"Painting": "2026-11-02", " Painting ": "2026-12-25"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}
