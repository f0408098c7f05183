package base

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aafab/recadastro/internal/cpf"
)

// StaticRegistry é uma base autorizada fixada no deploy, sem importação.
// Satisfaz Registry, então o gate de admissão funciona igual contra ela.
type StaticRegistry struct {
	entries map[string]Autorizado
}

// NewStaticRegistry monta a base em memória a partir de CPFs crus.
// Valores irrecuperáveis são descartados silenciosamente, como na importação.
func NewStaticRegistry(raws []string) *StaticRegistry {
	entries := make(map[string]Autorizado, len(raws))
	for _, raw := range raws {
		digits, ok := cpf.PadImport(raw)
		if !ok {
			continue
		}
		if _, dup := entries[digits]; dup {
			continue
		}
		entries[digits] = Autorizado{
			CPF:       digits,
			Nome:      PlaceholderNome(digits),
			Estado:    EstadoPadrao,
			TurmaCESD: TurmaPadrao,
		}
	}
	return &StaticRegistry{entries: entries}
}

// Lookup consulta a lista fixa.
func (s *StaticRegistry) Lookup(_ context.Context, cpfDigits string) (Autorizado, error) {
	a, ok := s.entries[cpfDigits]
	if !ok {
		return Autorizado{}, ErrNotFound
	}
	return a, nil
}

// Len devolve o tamanho da base estática.
func (s *StaticRegistry) Len() int {
	return len(s.entries)
}

// ReadSeedFile lê um arquivo plano de CPFs, um por linha.
// Linhas vazias e comentários iniciados por # são ignorados.
func ReadSeedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir lista de CPFs: %w", err)
	}
	defer f.Close()

	var raws []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raws = append(raws, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ler lista de CPFs: %w", err)
	}
	return raws, nil
}
