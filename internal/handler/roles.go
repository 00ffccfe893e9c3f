package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.List(r.Context(), r.URL.Query())
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) getRoleByName(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.FindByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.Create(r.Context(), r.Body)
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) rolePermissions(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roles.Permissions(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, res)
}
