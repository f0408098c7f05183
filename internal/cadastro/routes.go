package cadastro

import "github.com/go-chi/chi/v5"

// MountPublic registra o fluxo do titular em /cadastro.
func MountPublic(r chi.Router, handler *Handler) {
	handler.RegisterPublicRoutes(r)
}

// MountAdmin registra o painel em /cadastro/admin.
func MountAdmin(r chi.Router, handler *Handler) {
	handler.RegisterAdminRoutes(r)
}
