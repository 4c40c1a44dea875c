package handlers

import (
	"net/http"

	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// Catalog lists every project type with the services it offers.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog := models.Catalog()
	out := make([]CatalogEntry, 0, len(catalog))
	for _, t := range models.ProjectTypes() {
		out = append(out, CatalogEntry{ProjectType: t, Services: catalog[t]})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// Dashboard shows a customer their estimates and projects. Admins are sent
// to their own dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if actor.IsAdmin() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	estimates, err := h.Estimates.ListForCustomer(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	projects, err := h.Projects.ListForCustomer(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, CustomerDashboard{
		Notices:   h.Sessions.Flashes(w, r),
		Estimates: h.estimateViews(estimates),
		Projects:  h.projectViews(projects),
	})
}

func (h *Handler) ViewEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	est, err := h.Estimates.Get(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.estimateView(est))
}

func (h *Handler) ApproveEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Estimates.Approve(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ApprovalView{
		Estimate:       h.estimateView(res.Estimate),
		Project:        h.projectView(res.Project),
		ProjectCreated: res.ProjectCreated,
	})
}

func (h *Handler) DeclineEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	est, err := h.Estimates.Decline(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.estimateView(est))
}

func (h *Handler) TrackProjects(w http.ResponseWriter, r *http.Request) {
	view, err := h.Projects.Track(r.Context(), auth.ActorFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, TrackResponse{
		InProgress: h.projectViews(view.InProgress),
		Completed:  h.projectViews(view.Completed),
	})
}

// ViewProject serves both the customer and the admin project page.
func (h *Handler) ViewProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.Projects.Detail(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.detailView(detail))
}

func (h *Handler) ApproveSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.ApproveSchedule(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.projectView(p))
}

func (h *Handler) RequestNewSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.RejectSchedule(r.Context(), auth.ActorFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.projectView(p))
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req MessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	msg, err := h.Projects.PostMessage(r.Context(), auth.ActorFrom(r.Context()), id, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, msg)
}
