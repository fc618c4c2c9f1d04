package server

import (
	"net/http"

	"collection_finder/pkg/httpx/reply"
)

// CatalogServer отдаёт справочники: сеты, слоты, опции и валюты.
type CatalogServer struct{}

func NewCatalogServer() CatalogServer {
	return CatalogServer{}
}

func (s CatalogServer) getV1Catalog(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTCatalog())

	return nil
}
