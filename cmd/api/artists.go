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

// ListArtists godoc
//
//	@Summary		List artists
//	@Description	All lineup artists with the concert they play at.
//	@Tags			Artists
//	@Produce		json
//	@Success		200	{array}	artists.Artist
//	@Router			/artists [get]
func (app *application) listArtistsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Artists.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// GetArtist godoc
//
//	@Summary	Get an artist (admin)
//	@Tags		Admin
//	@Produce	json
//	@Param		artistID	path		int	true	"Artist ID"
//	@Success	200			{object}	artists.Artist
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/artists/{artistID} [get]
func (app *application) getArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist id: %w", err))
		return
	}

	artist, err := app.store.Artists.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if artist == nil {
		app.notFoundResponse(w, r, fmt.Errorf("artist %d not found", id))
		return
	}

	app.jsonResponse(w, http.StatusOK, artist)
}

type artistPayload struct {
	Name      string  `json:"name" validate:"required,max=150"`
	Genre     *string `json:"genre"`
	Bio       *string `json:"bio"`
	ImageURL  *string `json:"image_url"`
	ConcertID *int64  `json:"concert_id"`
}

// CreateArtist godoc
//
//	@Summary	Create an artist (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		artistPayload	true	"Artist"
//	@Success	201		{object}	artists.Artist
//	@Security	ApiKeyAuth
//	@Router		/admin/artists [post]
func (app *application) createArtistHandler(w http.ResponseWriter, r *http.Request) {
	var payload artistPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	artist := &artists.Artist{
		Name:      payload.Name,
		Genre:     payload.Genre,
		Bio:       payload.Bio,
		ImageURL:  payload.ImageURL,
		ConcertID: payload.ConcertID,
	}

	if err := app.store.Artists.Create(r.Context(), artist); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, artist)
}

// UpdateArtist godoc
//
//	@Summary	Update an artist (admin)
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		artistID	path		int				true	"Artist ID"
//	@Param		payload		body		artistPayload	true	"Artist"
//	@Success	200			{object}	artists.Artist
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/artists/{artistID} [put]
func (app *application) updateArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist id: %w", err))
		return
	}

	var payload artistPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	artist := &artists.Artist{
		ID:        id,
		Name:      payload.Name,
		Genre:     payload.Genre,
		Bio:       payload.Bio,
		ImageURL:  payload.ImageURL,
		ConcertID: payload.ConcertID,
	}

	if err := app.store.Artists.Update(r.Context(), artist); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			app.notFoundResponse(w, r, fmt.Errorf("artist %d not found", id))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, artist)
}

// DeleteArtist godoc
//
//	@Summary	Delete an artist (admin)
//	@Tags		Admin
//	@Param		artistID	path	int	true	"Artist ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/artists/{artistID} [delete]
func (app *application) deleteArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist id: %w", err))
		return
	}

	artist, err := app.store.Artists.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if artist == nil {
		app.notFoundResponse(w, r, fmt.Errorf("artist %d not found", id))
		return
	}

	if err := app.store.Artists.Delete(r.Context(), id); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if artist.ImageURL != nil {
		if err := app.deletePhotoFromCloudinary(*artist.ImageURL); err != nil {
			app.logger.Warnw("artist image cleanup failed", "artist_id", id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadArtistImage godoc
//
//	@Summary		Upload an artist image (admin)
//	@Description	Multipart upload. Replaces and deletes the previous image if one exists.
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			artistID	path		int		true	"Artist ID"
//	@Param			image		formData	file	true	"Image file"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/artists/{artistID}/image [post]
func (app *application) uploadArtistImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist id: %w", err))
		return
	}

	artist, err := app.store.Artists.GetByID(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if artist == nil {
		app.notFoundResponse(w, r, fmt.Errorf("artist %d not found", id))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("could not parse form: %w", err))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("image file is required: %w", err))
		return
	}
	defer file.Close()

	url, err := app.uploadToCloudinaryWithID(file, "synapse/artists", fmt.Sprintf("artist_%d", id))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	old := artist.ImageURL
	artist.ImageURL = &url

	if err := app.store.Artists.Update(r.Context(), artist); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if old != nil && *old != url {
		if err := app.deletePhotoFromCloudinary(*old); err != nil {
			app.logger.Warnw("previous artist image cleanup failed", "artist_id", id, "error", err)
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"image_url": url})
}
