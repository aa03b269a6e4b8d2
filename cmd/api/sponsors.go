package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"synapse/internal/domain/sponsors"
)

// ListSponsors godoc
//
//	@Summary		List sponsors
//	@Description	Ordered by tier then display_order for the site footer and sponsor wall.
//	@Tags			Sponsors
//	@Produce		json
//	@Success		200	{array}	sponsors.Sponsor
//	@Router			/sponsors [get]
func (app *application) listSponsorsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Sponsors.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

type sponsorPayload struct {
	Name         string  `json:"name" validate:"required,max=150"`
	Tier         string  `json:"tier" validate:"required,oneof=title platinum gold silver"`
	LogoURL      *string `json:"logo_url"`
	WebsiteURL   *string `json:"website_url"`
	DisplayOrder int     `json:"display_order"`
}

// CreateSponsor godoc
//
//	@Summary		Create a sponsor (admin)
//	@Description	Omitting display_order appends the sponsor after the current last one in its tier.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		sponsorPayload	true	"Sponsor"
//	@Success		201		{object}	sponsors.Sponsor
//	@Security		ApiKeyAuth
//	@Router			/admin/sponsors [post]
func (app *application) createSponsorHandler(w http.ResponseWriter, r *http.Request) {
	var payload sponsorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sponsor := &sponsors.Sponsor{
		Name:         payload.Name,
		Tier:         payload.Tier,
		LogoURL:      payload.LogoURL,
		WebsiteURL:   payload.WebsiteURL,
		DisplayOrder: payload.DisplayOrder,
	}

	if err := app.store.Sponsors.Create(r.Context(), sponsor); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, sponsor)
}

// UpdateSponsor godoc
//
//	@Summary	Update a sponsor (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		sponsorID	path		int				true	"Sponsor ID"
//	@Param		payload		body		sponsorPayload	true	"Sponsor"
//	@Success	200			{object}	sponsors.Sponsor
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/sponsors/{sponsorID} [put]
func (app *application) updateSponsorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sponsorID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid sponsor id: %w", err))
		return
	}

	var payload sponsorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sponsor := &sponsors.Sponsor{
		SponsorID:    id,
		Name:         payload.Name,
		Tier:         payload.Tier,
		LogoURL:      payload.LogoURL,
		WebsiteURL:   payload.WebsiteURL,
		DisplayOrder: payload.DisplayOrder,
	}

	if err := app.store.Sponsors.Update(r.Context(), sponsor); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("sponsor %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, sponsor)
}

// DeleteSponsor godoc
//
//	@Summary	Delete a sponsor (admin)
//	@Tags		Admin
//	@Param		sponsorID	path	int	true	"Sponsor ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/sponsors/{sponsorID} [delete]
func (app *application) deleteSponsorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sponsorID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid sponsor id: %w", err))
		return
	}

	logo, err := app.store.Sponsors.GetLogoURL(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Sponsors.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("sponsor %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if logo != nil {
		if err := app.deletePhotoFromCloudinary(*logo); err != nil {
			app.logger.Warnw("sponsor logo cleanup failed", "sponsor_id", id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

type reorderSponsorsPayload struct {
	Orders []sponsors.OrderUpdate `json:"orders" validate:"required,min=1,dive"`
}

// ReorderSponsors godoc
//
//	@Summary		Reorder sponsors (admin)
//	@Description	Batch update of display_order values.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		reorderSponsorsPayload	true	"New ordering"
//	@Success		200		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/admin/sponsors/reorder [patch]
func (app *application) reorderSponsorsHandler(w http.ResponseWriter, r *http.Request) {
	var payload reorderSponsorsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Sponsors.Reorder(r.Context(), payload.Orders); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "sponsor order updated"})
}
