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

// ListCategories godoc
//
//	@Summary	List event categories
//	@Tags		Events
//	@Produce	json
//	@Success	200	{array}	events.Category
//	@Router		/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Events.ListCategories(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

type categoryPayload struct {
	CategoryName  string  `json:"category_name" validate:"required,max=100"`
	Description   *string `json:"description"`
	CategoryImage *string `json:"category_image"`
}

// CreateCategory godoc
//
//	@Summary	Create an event category (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		categoryPayload	true	"Category"
//	@Success	201		{object}	events.Category
//	@Security	ApiKeyAuth
//	@Router		/admin/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &events.Category{
		CategoryName:  payload.CategoryName,
		Description:   payload.Description,
		CategoryImage: payload.CategoryImage,
	}

	if err := app.store.Events.CreateCategory(r.Context(), category); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, category)
}

// UpdateCategory godoc
//
//	@Summary	Update an event category (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		categoryID	path		int				true	"Category ID"
//	@Param		payload		body		categoryPayload	true	"Category"
//	@Success	200			{object}	events.Category
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/categories/{categoryID} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category id: %w", err))
		return
	}

	var payload categoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &events.Category{
		CategoryID:    id,
		CategoryName:  payload.CategoryName,
		Description:   payload.Description,
		CategoryImage: payload.CategoryImage,
	}

	if err := app.store.Events.UpdateCategory(r.Context(), category); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("category %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, category)
}

// DeleteCategory godoc
//
//	@Summary		Delete an event category (admin)
//	@Description	Also removes the category image from media storage.
//	@Tags			Admin
//	@Param			categoryID	path	int	true	"Category ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category id: %w", err))
		return
	}

	image, err := app.store.Events.GetCategoryImage(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Events.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("category %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if image != nil {
		if err := app.deletePhotoFromCloudinary(*image); err != nil {
			app.logger.Warnw("category image cleanup failed", "category_id", id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
