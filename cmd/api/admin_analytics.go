package main

import (
	"fmt"
	"net/http"
	"strconv"
)

// AdminTraffic godoc
//
//	@Summary		Site traffic estimate (admin)
//	@Description	Registration-derived traffic over the last N days (default 7).
//	@Tags			Admin
//	@Produce		json
//	@Param			days	query		int	false	"Window in days"
//	@Success		200		{object}	analytics.Traffic
//	@Security		ApiKeyAuth
//	@Router			/admin/analytics/traffic [get]
func (app *application) adminTrafficHandler(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid days parameter"))
			return
		}
		days = n
	}

	traffic, err := app.store.Analytics.GetTraffic(r.Context(), days)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, traffic)
}
