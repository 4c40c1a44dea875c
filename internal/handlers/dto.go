package handlers

import (
	"github.com/petermazzocco/renovation-portal/internal/storage"
	"github.com/petermazzocco/renovation-portal/internal/workflow"
	"github.com/petermazzocco/renovation-portal/models"
)

type RegisterRequest struct {
	FullName        string `json:"full_name" validate:"required,max=100"`
	Address         string `json:"address" validate:"required,max=200"`
	Phone           string `json:"phone" validate:"required,max=20"`
	Email           string `json:"email" validate:"required,email,max=120"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User     *models.User `json:"user"`
	Redirect string       `json:"redirect"`
}

type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type AssignRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ScheduleRequest struct {
	Schedule map[string]string `json:"schedule"`
}

type ScheduleFormResponse struct {
	Project *ProjectView             `json:"project"`
	Fields  []workflow.ScheduleField `json:"fields"`
}

type CatalogEntry struct {
	ProjectType models.ProjectType `json:"project_type"`
	Services    []string           `json:"services"`
}

type EstimateView struct {
	*models.EstimateRequest
	ServiceItems   []string `json:"service_items"`
	ImageURLs      []string `json:"image_urls"`
	EstimatePDFURL string   `json:"estimate_pdf_url,omitempty"`
}

type ProjectView struct {
	*models.Project
	ServiceItems []string          `json:"service_items"`
	Schedule     map[string]string `json:"schedule"`
	SketchURL    string            `json:"sketch_url,omitempty"`
}

type UploadView struct {
	models.ProjectUpload
	URL string `json:"url"`
}

type ProjectDetailView struct {
	Project  *ProjectView            `json:"project"`
	Messages []models.ProjectMessage `json:"messages"`
	Uploads  []UploadView            `json:"uploads"`
}

type ApprovalView struct {
	Estimate       *EstimateView `json:"estimate"`
	Project        *ProjectView  `json:"project"`
	ProjectCreated bool          `json:"project_created"`
}

type CustomerDashboard struct {
	Notices   []string       `json:"notices,omitempty"`
	Estimates []EstimateView `json:"estimates"`
	Projects  []ProjectView  `json:"projects"`
}

type AdminDashboard struct {
	Notices    []string       `json:"notices,omitempty"`
	InProgress []ProjectView  `json:"in_progress"`
	Estimates  []EstimateView `json:"estimates"`
}

type TrackResponse struct {
	InProgress []ProjectView `json:"in_progress"`
	Completed  []ProjectView `json:"completed"`
}

type ManageResponse struct {
	Unassigned []ProjectView `json:"unassigned"`
	InProgress []ProjectView `json:"in_progress"`
	Waiting    []ProjectView `json:"waiting"`
	Completed  []ProjectView `json:"completed"`
}

func (h *Handler) estimateView(e *models.EstimateRequest) *EstimateView {
	v := &EstimateView{EstimateRequest: e, ServiceItems: e.ServiceList(), ImageURLs: []string{}}
	for _, name := range e.Images() {
		v.ImageURLs = append(v.ImageURLs, h.Files.URL(storage.FolderImages, name))
	}
	if e.EstimatePDF != "" {
		v.EstimatePDFURL = h.Files.URL(storage.FolderEstimates, e.EstimatePDF)
	}
	return v
}

func (h *Handler) estimateViews(list []models.EstimateRequest) []EstimateView {
	out := make([]EstimateView, 0, len(list))
	for i := range list {
		out = append(out, *h.estimateView(&list[i]))
	}
	return out
}

func (h *Handler) projectView(p *models.Project) *ProjectView {
	v := &ProjectView{Project: p, ServiceItems: p.ServiceList(), Schedule: p.Schedule()}
	if p.SketchFilename != "" {
		v.SketchURL = h.Files.URL(storage.FolderImages, p.SketchFilename)
	}
	return v
}

func (h *Handler) projectViews(list []models.Project) []ProjectView {
	out := make([]ProjectView, 0, len(list))
	for i := range list {
		out = append(out, *h.projectView(&list[i]))
	}
	return out
}

func (h *Handler) detailView(d *workflow.ProjectDetail) *ProjectDetailView {
	v := &ProjectDetailView{
		Project:  h.projectView(d.Project),
		Messages: d.Messages,
		Uploads:  make([]UploadView, 0, len(d.Uploads)),
	}
	if v.Messages == nil {
		v.Messages = []models.ProjectMessage{}
	}
	for _, u := range d.Uploads {
		v.Uploads = append(v.Uploads, UploadView{ProjectUpload: u, URL: h.Files.URL(storage.FolderProjectUploads, u.Filename)})
	}
	return v
}
