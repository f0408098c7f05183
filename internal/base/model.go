package base

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indica CPF ausente da base autorizada.
	ErrNotFound = errors.New("cpf não consta na base autorizada")
)

// Autorizado é um titular habilitado a se recadastrar.
type Autorizado struct {
	CPF       string `json:"cpf"`
	Nome      string `json:"nome"`
	Estado    string `json:"estado"`
	TurmaCESD string `json:"turma_cesd"`
	RG        string `json:"rg"`
}

// AutorizadoStatus acrescenta o flag derivado de cadastro já realizado.
type AutorizadoStatus struct {
	Autorizado
	CadastroRealizado bool      `json:"cadastro_realizado"`
	CriadoEm          time.Time `json:"criado_em"`
}

// ImportResult resume uma importação em massa.
type ImportResult struct {
	Adicionados int `json:"adicionados"`
	Ignorados   int `json:"ignorados"`
}

// Registry é a visão de leitura consumida pelo gate de admissão.
// Tanto a base em Postgres quanto a lista estática embarcada a implementam.
type Registry interface {
	Lookup(ctx context.Context, cpfDigits string) (Autorizado, error)
}

// Valores default de novos registros vindos de importação.
const (
	EstadoPadrao = "SP"
	TurmaPadrao  = "2024/2"
)

// PlaceholderNome gera o nome mascarado usado até o titular informar o legal.
func PlaceholderNome(cpfDigits string) string {
	if len(cpfDigits) != 11 {
		return "TITULAR"
	}
	return "TITULAR - " + cpfDigits[:3] + "..." + cpfDigits[9:]
}
