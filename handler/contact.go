package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/email"
	"portfolio-backend/enrich"
	"portfolio-backend/model"
	"portfolio-backend/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// ContactHandler handles contact-form endpoints
type ContactHandler struct {
	contacts  store.ContactStore
	notifier  *email.Notifier
	opTimeout time.Duration
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts store.ContactStore, notifier *email.Notifier, opTimeout time.Duration) *ContactHandler {
	return &ContactHandler{contacts: contacts, notifier: notifier, opTimeout: opTimeout}
}

// Create handles POST /contact. All field errors are collected before
// responding; valid submissions are stored trimmed, with a lowercased email
// and status "unread".
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warn().Err(err).Msg("Failed to decode contact request body")
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, emailAddr, message := model.NormalizeContact(input.Name, input.Email, input.Message)
	if errs := model.ValidateContact(name, emailAddr, message); len(errs) > 0 {
		SendValidationErrors(w, errs)
		return
	}

	msg := &model.ContactMessage{
		Name:      name,
		Email:     emailAddr,
		Message:   message,
		IPAddress: enrich.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.contacts.Create(ctx, msg); err != nil {
		log.Error().Err(err).Msg("Failed to store contact message")
		SendError(w, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}

	// Notification must never delay or fail the submission
	go func(saved model.ContactMessage) {
		if err := h.notifier.NotifyNewContact(saved); err != nil {
			log.Error().Err(err).Str("id", saved.ID).Msg("Failed to send contact notification")
		}
	}(*msg)

	log.Info().Str("id", msg.ID).Str("email", msg.Email).Msg("Contact message created")

	SendJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Your message has been sent successfully! (Email notification is disabled, but your message is saved.)",
		"data": map[string]interface{}{
			"id":    msg.ID,
			"name":  msg.Name,
			"email": msg.Email,
			"date":  msg.Date,
		},
	})
}

// List handles GET /contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidStatus(status) {
		SendError(w, http.StatusBadRequest, fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(model.ValidStatuses, ", ")))
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)

	msgs, total, unread, err := h.contacts.List(ctx, status, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contact messages")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"count":       len(msgs),
		"total":       total,
		"unreadCount": unread,
		"page":        page,
		"totalPages":  totalPages(total, limit),
		"data":        msgs,
	})
}

// GetByID handles GET /contact/{id}
func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	msg, err := h.contacts.GetByID(ctx, mux.Vars(r)["id"])
	if err == store.ErrNotFound {
		SendError(w, http.StatusNotFound, "Message not found")
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Failed to fetch contact message")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve message")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": msg})
}

// UpdateStatus handles PUT /contact/{id}/status
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !model.IsValidStatus(input.Status) {
		SendError(w, http.StatusBadRequest, fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(model.ValidStatuses, ", ")))
		return
	}

	msg, err := h.contacts.UpdateStatus(ctx, mux.Vars(r)["id"], input.Status)
	if err == store.ErrNotFound {
		SendError(w, http.StatusNotFound, "Message not found")
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Failed to update contact status")
		SendError(w, http.StatusInternalServerError, "Failed to update message status")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Message status updated to %s", input.Status),
		"data":    msg,
	})
}

// Delete handles DELETE /contact/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	err := h.contacts.Delete(ctx, mux.Vars(r)["id"])
	if err == store.ErrNotFound {
		SendError(w, http.StatusNotFound, "Message not found")
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Failed to delete contact message")
		SendError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Message deleted successfully",
	})
}

// Stats handles GET /contact/stats
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	stats, err := h.contacts.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute contact stats")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": stats})
}
