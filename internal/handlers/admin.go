package handlers

import (
	"net/http"
	"strings"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/storage"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/internal/workflow"
	"github.com/petermazzocco/renovation-portal/models"
)

// AdminDashboard lists in-progress projects and every estimate request.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	projects, err := h.Projects.ListInProgress(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	estimates, err := h.Estimates.ListAll(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, AdminDashboard{
		Notices:    h.Sessions.Flashes(w, r),
		InProgress: h.projectViews(projects),
		Estimates:  h.estimateViews(estimates),
	})
}

// EstimateRequests lists requests still waiting for a price.
func (h *Handler) EstimateRequests(w http.ResponseWriter, r *http.Request) {
	list, err := h.Estimates.ListPending(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.estimateViews(list))
}

// AdminViewEstimate is the admin's estimate page.
func (h *Handler) AdminViewEstimate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ViewEstimate(w, r)
}

// UploadEstimatePDF stores the priced document as
// "<estimate number>_<8 hex>_<file name>" and marks the estimate received.
func (h *Handler) UploadEstimatePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor := auth.ActorFrom(r.Context())
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		h.fail(w, r, err)
		return
	}
	est, err := h.Estimates.Get(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	fh := formFile(r, "estimate_pdf")
	if fh == nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Please select a file to upload.", nil)
		return
	}

	name := storage.PrefixedName(est.EstimateNumber, storage.UniqueName(fh.Filename))
	if err := h.storeUpload(r.Context(), storage.FolderEstimates, name, fh); err != nil {
		h.fail(w, r, err)
		return
	}
	est, err = h.Estimates.AttachPricing(r.Context(), actor, id, name)
	if err != nil {
		h.discard(r.Context(), storage.FolderEstimates, name)
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.estimateView(est))
}

// NewProject creates a project by hand, with an optional sketch.
func (h *Handler) NewProject(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		h.fail(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	sqft, err := parseSqft(r.FormValue("total_sqft"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var sketch string
	if fh := formFile(r, "sketch"); fh != nil {
		sketch = storage.UniqueName(fh.Filename)
		if err := h.storeUpload(r.Context(), storage.FolderImages, sketch, fh); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	p, err := h.Projects.Create(r.Context(), actor, workflow.CreateProjectInput{
		FullName:       r.FormValue("full_name"),
		Address:        r.FormValue("address"),
		Phone:          r.FormValue("phone"),
		Email:          r.FormValue("email"),
		ProjectType:    models.ProjectType(strings.TrimSpace(r.FormValue("project_type"))),
		Services:       r.Form["services"],
		TotalSqft:      sqft,
		Details:        r.FormValue("details"),
		SketchFilename: sketch,
	})
	if err != nil {
		if sketch != "" {
			h.discard(r.Context(), storage.FolderImages, sketch)
		}
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, h.projectView(p))
}

// ScheduleForm describes one date field per project service.
func (h *Handler) ScheduleForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, fields, err := h.Projects.ScheduleForm(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ScheduleFormResponse{Project: h.projectView(p), Fields: fields})
}

// ProposeSchedule takes {"schedule": {"<service>": "YYYY-MM-DD"}}.
func (h *Handler) ProposeSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.Projects.ProposeSchedule(r.Context(), auth.ActorFrom(r.Context()), id, req.Schedule)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.projectView(p))
}

func (h *Handler) AssignProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.Projects.Assign(r.Context(), auth.ActorFrom(r.Context()), id, req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.projectView(p))
}

// UploadProjectFile attaches a file to the project.
func (h *Handler) UploadProjectFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor := auth.ActorFrom(r.Context())
	if err := access.Authorize(actor, access.AdminOnly()); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Projects.Get(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	if !parseForm(w, r) {
		return
	}
	fh := formFile(r, "file")
	if fh == nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Please select a file to upload.", nil)
		return
	}

	name := storage.UniqueName(fh.Filename)
	if err := h.storeUpload(r.Context(), storage.FolderProjectUploads, name, fh); err != nil {
		h.fail(w, r, err)
		return
	}
	upload, err := h.Projects.AddUpload(r.Context(), actor, id, name)
	if err != nil {
		h.discard(r.Context(), storage.FolderProjectUploads, name)
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, UploadView{
		ProjectUpload: *upload,
		URL:           h.Files.URL(storage.FolderProjectUploads, upload.Filename),
	})
}

// AdminViewProject is the admin's project page.
func (h *Handler) AdminViewProject(w http.ResponseWriter, r *http.Request) {
	if err := access.Authorize(auth.ActorFrom(r.Context()), access.AdminOnly()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ViewProject(w, r)
}

func (h *Handler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.Complete(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.projectView(p))
}

// DeleteProject removes the project with its messages and uploads, then
// the uploaded files.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor := auth.ActorFrom(r.Context())
	detail, err := h.Projects.Detail(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Projects.Delete(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	for _, u := range detail.Uploads {
		h.discard(r.Context(), storage.FolderProjectUploads, u.Filename)
	}
	utils.RespondWithJSON(w, http.StatusOK, Message{Message: "Project deleted."})
}

func (h *Handler) ManageProjects(w http.ResponseWriter, r *http.Request) {
	view, err := h.Projects.Manage(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ManageResponse{
		Unassigned: h.projectViews(view.Unassigned),
		InProgress: h.projectViews(view.InProgress),
		Waiting:    h.projectViews(view.Waiting),
		Completed:  h.projectViews(view.Completed),
	})
}
