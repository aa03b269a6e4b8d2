package main

import (
	"context"
	"net/http"
	"time"
)

// AdminOverview godoc
//
//	@Summary		Dashboard overview counts (admin)
//	@Description	Aggregate counts across events, lineup, sponsors, users and paid activity, plus the latest paid registrations.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/overview [get]
func (app *application) adminOverviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	overview, err := app.store.AdminDashboard.GetOverview(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	recent, _, err := app.store.Registrations.List(ctx, 0, "paid", nil, 5, 0)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"overview":             overview,
		"recent_registrations": recent,
	})
}

// AdminDailyStats godoc
//
//	@Summary		Today vs yesterday registrations (admin)
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	admindashboard.DayComparison
//	@Security		ApiKeyAuth
//	@Router			/admin/stats/daily [get]
func (app *application) adminDailyStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := app.store.AdminDashboard.GetDayComparison(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, stats)
}
