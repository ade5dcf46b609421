package router

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	handler "github.com/imgchan/handler/v1/extractions"
	"github.com/imgchan/model"
	"github.com/imgchan/web/uploader"
)

// New returns new router.
func New(repo model.ExtractionsRepository, uploadSvc uploader.Service, loader handler.Loader, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	svcV1 := handler.NewService(repo, uploadSvc, loader, log)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	apiV1.HandleFunc("/extractions", svcV1.All).Methods("GET")
	apiV1.HandleFunc("/extractions", svcV1.Create).Methods("POST").Queries("channel", "")
	apiV1.HandleFunc("/extractions/{id}", svcV1.GetByID).Methods("GET")
	return router
}
