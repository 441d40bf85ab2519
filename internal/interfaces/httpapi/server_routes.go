package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/matches", handler.ListMatchesByCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.ListStandingsByCompetition)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconciliation)))
	mux.Handle("GET /v1/internal/jobs/reconcile/latest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetLatestReconciliationRun)))
}
