package base

import (
	"context"

	"github.com/aafab/recadastro/internal/cpf"
)

// Storer é o que o serviço exige da persistência da base.
type Storer interface {
	Registry
	BulkInsert(ctx context.Context, cpfs []string) (int, error)
	List(ctx context.Context) ([]AutorizadoStatus, error)
}

// Service concentra as operações administrativas sobre a base autorizada.
type Service struct {
	repo Storer
}

func NewService(repo Storer) *Service {
	return &Service{repo: repo}
}

// Lookup repassa a consulta do gate de admissão.
func (s *Service) Lookup(ctx context.Context, cpfDigits string) (Autorizado, error) {
	return s.repo.Lookup(ctx, cpfDigits)
}

// List devolve a base completa para o painel administrativo.
func (s *Service) List(ctx context.Context) ([]AutorizadoStatus, error) {
	return s.repo.List(ctx)
}

// BulkImport normaliza e insere CPFs de forma estritamente aditiva.
// Valores de 1 a 10 dígitos recebem zeros à esquerda (planilhas derrubam
// o zero inicial); valores irrecuperáveis ou já presentes são ignorados.
// Reimportar a mesma lista é idempotente.
func (s *Service) BulkImport(ctx context.Context, raws []string) (ImportResult, error) {
	seen := make(map[string]struct{}, len(raws))
	var normalizados []string
	for _, raw := range raws {
		digits, ok := cpf.PadImport(raw)
		if !ok {
			continue
		}
		if _, dup := seen[digits]; dup {
			continue
		}
		seen[digits] = struct{}{}
		normalizados = append(normalizados, digits)
	}

	added, err := s.repo.BulkInsert(ctx, normalizados)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{Adicionados: added, Ignorados: len(raws) - added}, nil
}
