package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"synapse/internal/domain/artists"
)

// ListConcerts godoc
//
//	@Summary	List concerts
//	@Tags		Concerts
//	@Produce	json
//	@Success	200	{array}	artists.Concert
//	@Router		/concerts [get]
func (app *application) listConcertsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Artists.ListConcerts(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// GetConcert godoc
//
//	@Summary	Get a concert (admin)
//	@Tags		Admin
//	@Produce	json
//	@Param		concertID	path		int	true	"Concert ID"
//	@Success	200			{object}	artists.Concert
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/concerts/{concertID} [get]
func (app *application) getConcertHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "concertID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid concert id: %w", err))
		return
	}

	concert, err := app.store.Artists.GetConcert(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if concert == nil {
		app.notFoundResponse(w, r, fmt.Errorf("concert %d not found", id))
		return
	}

	app.jsonResponse(w, http.StatusOK, concert)
}

type concertPayload struct {
	ConcertName string  `json:"concert_name" validate:"required,max=150"`
	ConcertDate *string `json:"concert_date"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
}

// CreateConcert godoc
//
//	@Summary	Create a concert (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		concertPayload	true	"Concert"
//	@Success	201		{object}	artists.Concert
//	@Security	ApiKeyAuth
//	@Router		/admin/concerts [post]
func (app *application) createConcertHandler(w http.ResponseWriter, r *http.Request) {
	var payload concertPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	concert := &artists.Concert{
		ConcertName: payload.ConcertName,
		ConcertDate: payload.ConcertDate,
		Venue:       payload.Venue,
		Description: payload.Description,
	}

	if err := app.store.Artists.CreateConcert(r.Context(), concert); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, concert)
}

// UpdateConcert godoc
//
//	@Summary	Update a concert (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		concertID	path		int				true	"Concert ID"
//	@Param		payload		body		concertPayload	true	"Concert"
//	@Success	200			{object}	artists.Concert
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/concerts/{concertID} [put]
func (app *application) updateConcertHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "concertID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid concert id: %w", err))
		return
	}

	var payload concertPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	concert := &artists.Concert{
		ConcertID:   id,
		ConcertName: payload.ConcertName,
		ConcertDate: payload.ConcertDate,
		Venue:       payload.Venue,
		Description: payload.Description,
	}

	if err := app.store.Artists.UpdateConcert(r.Context(), concert); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("concert %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, concert)
}

// DeleteConcert godoc
//
//	@Summary		Delete a concert (admin)
//	@Description	Artists pointing at the concert keep playing, their concert link is nulled by the schema.
//	@Tags			Admin
//	@Param			concertID	path	int	true	"Concert ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/concerts/{concertID} [delete]
func (app *application) deleteConcertHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "concertID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid concert id: %w", err))
		return
	}

	if err := app.store.Artists.DeleteConcert(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("concert %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
