package cadastro

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aafab/recadastro/internal/audit"
	"github.com/aafab/recadastro/internal/base"
)

// ServiceProvider é a visão do serviço usada pelos handlers.
type ServiceProvider interface {
	Verificar(ctx context.Context, cpf string) (Elegibilidade, error)
	Enviar(ctx context.Context, env Envio) (Cadastro, error)
	Listar(ctx context.Context, busca string) ([]Cadastro, error)
	Exportar(ctx context.Context) ([]byte, error)
}

// BaseProvider expõe as operações administrativas sobre a base autorizada.
type BaseProvider interface {
	List(ctx context.Context) ([]base.AutorizadoStatus, error)
	BulkImport(ctx context.Context, raws []string) (base.ImportResult, error)
}

// Auditor registra e consulta a trilha de auditoria.
type Auditor interface {
	Record(ctx context.Context, evento, detalhe, ip string)
	ListRecent(ctx context.Context, limit int) ([]audit.Entrada, error)
}

// Handler expõe os endpoints REST de recadastramento.
type Handler struct {
	service ServiceProvider
	base    BaseProvider
	audit   Auditor
}

func NewHandler(service ServiceProvider, baseSvc BaseProvider, auditor Auditor) *Handler {
	return &Handler{service: service, base: baseSvc, audit: auditor}
}

// RegisterPublicRoutes registra o fluxo do titular.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/verificar", h.verificar)
	r.Post("/", h.enviar)
}

// RegisterAdminRoutes registra as rotas do painel (já protegidas por JWT).
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/list", h.adminList)
	r.Get("/export", h.adminExport)
	r.Get("/base", h.adminBase)
	r.Post("/import", h.adminImport)
	r.Get("/auditoria", h.adminAuditoria)
}

func (h *Handler) verificar(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CPF string `json:"cpf"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	eleg, err := h.service.Verificar(r.Context(), payload.CPF)
	if err != nil {
		h.writeCadastroError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eleg)
}

func (h *Handler) enviar(w http.ResponseWriter, r *http.Request) {
	var env Envio
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	gravado, err := h.service.Enviar(r.Context(), env)
	if err != nil {
		h.writeCadastroError(w, err)
		return
	}

	h.audit.Record(r.Context(), audit.EventoCadastroEnviado, "cadastro gravado para "+gravado.CPF, r.RemoteAddr)
	writeJSON(w, http.StatusCreated, gravado)
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	h.audit.Record(r.Context(), audit.EventoAdminList, "listagem de cadastros acessada", r.RemoteAddr)

	cadastros, err := h.service.Listar(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeCadastroError(w, err)
		return
	}
	if cadastros == nil {
		cadastros = []Cadastro{}
	}

	writeJSON(w, http.StatusOK, cadastros)
}

func (h *Handler) adminExport(w http.ResponseWriter, r *http.Request) {
	h.audit.Record(r.Context(), audit.EventoAdminExport, "exportação de planilha solicitada", r.RemoteAddr)

	planilha, err := h.service.Exportar(r.Context())
	if err != nil {
		h.writeCadastroError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(planilha)
}

func (h *Handler) adminBase(w http.ResponseWriter, r *http.Request) {
	lista, err := h.base.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar a base", nil)
		return
	}
	if lista == nil {
		lista = []base.AutorizadoStatus{}
	}

	writeJSON(w, http.StatusOK, lista)
}

func (h *Handler) adminImport(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CPFs []string `json:"cpfs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if len(payload.CPFs) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "lista de CPFs vazia", nil)
		return
	}

	res, err := h.base.BulkImport(r.Context(), payload.CPFs)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "PERSISTENCE", "não foi possível importar a base", nil)
		return
	}

	h.audit.Record(r.Context(), audit.EventoAdminImport,
		"importação: "+strconv.Itoa(res.Adicionados)+" adicionados, "+strconv.Itoa(res.Ignorados)+" ignorados", r.RemoteAddr)

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminAuditoria(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	entradas, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar auditoria", nil)
		return
	}
	if entradas == nil {
		entradas = []audit.Entrada{}
	}

	writeJSON(w, http.StatusOK, entradas)
}

func (h *Handler) writeCadastroError(w http.ResponseWriter, err error) {
	var valErr *ErroValidacao
	switch {
	case errors.Is(err, ErrConsentimentoObrigatorio):
		writeError(w, http.StatusBadRequest, "CONSENT", err.Error(), nil)
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, "VALIDATION", valErr.Error(), map[string]string{"campo": valErr.Campo})
	case errors.Is(err, ErrNaoAutorizado):
		writeError(w, http.StatusForbidden, "NAO_AUTORIZADO", err.Error(), nil)
	case errors.Is(err, ErrJaCadastrado):
		writeError(w, http.StatusConflict, "JA_CADASTRADO", err.Error(), nil)
	case errors.Is(err, ErrDuplicado):
		writeError(w, http.StatusConflict, "DUPLICADO", err.Error(), nil)
	case errors.Is(err, ErrPersistencia):
		writeError(w, http.StatusServiceUnavailable, "PERSISTENCE", "erro ao processar cadastro no servidor", nil)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
