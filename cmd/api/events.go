package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"synapse/internal/domain/events"
)

// ListEvents godoc
//
//	@Summary		List events
//	@Description	All events with their category and fee tiers.
//	@Tags			Events
//	@Produce		json
//	@Success		200	{array}	events.Event
//	@Router			/events [get]
func (app *application) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Events.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// GetEvent godoc
//
//	@Summary	Get an event
//	@Tags		Events
//	@Produce	json
//	@Param		eventID	path		int	true	"Event ID"
//	@Success	200		{object}	events.Event
//	@Failure	404		{object}	error
//	@Router		/events/{eventID} [get]
func (app *application) getEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event id: %w", err))
		return
	}

	event, err := app.store.Events.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if event == nil {
		app.notFoundResponse(w, r, fmt.Errorf("event %d not found", id))
		return
	}

	app.jsonResponse(w, http.StatusOK, event)
}

type createEventPayload struct {
	EventName          string       `json:"event_name" validate:"required,max=150"`
	CategoryID         *int64       `json:"category_id"`
	EventDate          *string      `json:"event_date"`
	EventPicture       *string      `json:"event_picture"`
	Rulebook           *string      `json:"rulebook"`
	Description        *string      `json:"description"`
	IsRegistrationOpen *bool        `json:"is_registration_open"`
	Fees               []events.Fee `json:"fees" validate:"dive"`
}

// CreateEvent godoc
//
//	@Summary	Create an event with fee tiers (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		createEventPayload	true	"Event"
//	@Success	201		{object}	events.Event
//	@Security	ApiKeyAuth
//	@Router		/admin/events [post]
func (app *application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload createEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	open := true
	if payload.IsRegistrationOpen != nil {
		open = *payload.IsRegistrationOpen
	}

	event := &events.Event{
		EventName:          payload.EventName,
		CategoryID:         payload.CategoryID,
		EventDate:          payload.EventDate,
		EventPicture:       payload.EventPicture,
		Rulebook:           payload.Rulebook,
		Description:        payload.Description,
		IsRegistrationOpen: open,
		Fees:               payload.Fees,
	}

	if err := app.store.Events.Create(r.Context(), event); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, event)
}

// UpdateEvent godoc
//
//	@Summary		Update an event (admin)
//	@Description	Partial update: only the supplied fields change.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int				true	"Event ID"
//	@Param			payload	body		map[string]any	true	"Fields to change"
//	@Success		200		{object}	events.Event
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/events/{eventID} [patch]
func (app *application) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event id: %w", err))
		return
	}

	var updates map[string]any
	if err := readJSON(w, r, &updates); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(updates) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Events.Update(r.Context(), id, updates); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("event %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	event, err := app.store.Events.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, event)
}

// DeleteEvent godoc
//
//	@Summary		Delete an event (admin)
//	@Description	Removes the event, its fee tiers and its poster image.
//	@Tags			Admin
//	@Param			eventID	path	int	true	"Event ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/events/{eventID} [delete]
func (app *application) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid event id: %w", err))
		return
	}

	event, err := app.store.Events.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if event == nil {
		app.notFoundResponse(w, r, fmt.Errorf("event %d not found", id))
		return
	}

	if err := app.store.Events.Delete(r.Context(), id); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if event.EventPicture != nil {
		if err := app.deletePhotoFromCloudinary(*event.EventPicture); err != nil {
			app.logger.Warnw("event picture cleanup failed", "event_id", id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
