package cadastro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aafab/recadastro/internal/base"
	"github.com/aafab/recadastro/internal/config"
	"github.com/aafab/recadastro/internal/cpf"
	"github.com/aafab/recadastro/internal/metrics"
	"github.com/aafab/recadastro/internal/util"
)

// Storer é o que o serviço exige da persistência de cadastros.
type Storer interface {
	GetByCPF(ctx context.Context, cpfDigits string) (Cadastro, error)
	Upsert(ctx context.Context, env Envio) (Cadastro, error)
	Insert(ctx context.Context, env Envio) (Cadastro, error)
	List(ctx context.Context, busca string) ([]Cadastro, error)
}

// Service reúne o gate de admissão, o processamento de envios e as
// projeções administrativas. Toda escrita passa pelo gate.
type Service struct {
	registry base.Registry
	repo     Storer
	politica string
	metrics  *metrics.Metrics
}

func NewService(registry base.Registry, repo Storer, politica string, m *metrics.Metrics) *Service {
	if politica != config.PoliticaBloqueio {
		politica = config.PoliticaUpsert
	}
	return &Service{registry: registry, repo: repo, politica: politica, metrics: m}
}

// Verificar decide se um CPF pode prosseguir para o formulário.
// Sucesso devolve os dados conhecidos do titular; quando já existe um
// cadastro e a política permite edição, o retorno vem pré-preenchido.
func (s *Service) Verificar(ctx context.Context, raw string) (Elegibilidade, error) {
	digits := cpf.Normalize(raw)

	autorizado, err := s.registry.Lookup(ctx, digits)
	if err != nil {
		if errors.Is(err, base.ErrNotFound) {
			return Elegibilidade{}, ErrNaoAutorizado
		}
		return Elegibilidade{}, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	eleg := Elegibilidade{
		CPF:       autorizado.CPF,
		Nome:      autorizado.Nome,
		Estado:    autorizado.Estado,
		TurmaCESD: autorizado.TurmaCESD,
		RG:        autorizado.RG,
	}

	anterior, err := s.repo.GetByCPF(ctx, digits)
	switch {
	case err == nil:
		if s.politica == config.PoliticaBloqueio {
			return Elegibilidade{}, ErrJaCadastrado
		}
		eleg.Nome = anterior.Nome
		eleg.Estado = anterior.Estado
		eleg.TurmaCESD = anterior.TurmaCESD
		eleg.RG = anterior.RG
		eleg.Email = anterior.Email
		eleg.Telefone = anterior.Telefone
		eleg.Endereco = anterior.Endereco
		eleg.Bairro = anterior.Bairro
		eleg.Cidade = anterior.Cidade
		eleg.CEP = anterior.CEP
		eleg.CertidaoObito = anterior.CertidaoObito
		eleg.CadastroRealizado = true
	case errors.Is(err, ErrNotFound):
		// primeiro acesso
	default:
		return Elegibilidade{}, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	return eleg, nil
}

// Enviar valida e grava um envio. As pré-condições falham na ordem do
// contrato: consentimento, campos obrigatórios, CPF, admissão, duplicidade.
func (s *Service) Enviar(ctx context.Context, env Envio) (Cadastro, error) {
	if !env.Consentimento {
		return Cadastro{}, ErrConsentimentoObrigatorio
	}

	if campo := validarCampos(env); campo != "" {
		return Cadastro{}, &ErroValidacao{Campo: campo}
	}

	// Revalida no servidor mesmo que o cliente já tenha validado.
	digits := cpf.Normalize(env.CPF)
	if !cpf.Validate(digits) {
		return Cadastro{}, &ErroValidacao{Campo: "cpf"}
	}
	env.CPF = digits

	autorizado, err := s.registry.Lookup(ctx, digits)
	if err != nil {
		if errors.Is(err, base.ErrNotFound) {
			return Cadastro{}, ErrNaoAutorizado
		}
		return Cadastro{}, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	// Telefone e CEP são guardados só com dígitos; máscara é coisa de tela.
	env.Telefone = cpf.Normalize(env.Telefone)
	env.Cep = cpf.Normalize(env.Cep)
	if strings.TrimSpace(env.Estado) == "" {
		env.Estado = autorizado.Estado
	}

	var gravado Cadastro
	if s.politica == config.PoliticaBloqueio {
		gravado, err = s.repo.Insert(ctx, env)
	} else {
		gravado, err = s.repo.Upsert(ctx, env)
	}
	if err != nil {
		if errors.Is(err, ErrDuplicado) {
			return Cadastro{}, ErrDuplicado
		}
		return Cadastro{}, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}

	if s.metrics != nil {
		s.metrics.CadastrosEnviados.Inc()
	}

	return gravado, nil
}

// Listar devolve os cadastros mais recentes primeiro, com busca opcional.
func (s *Service) Listar(ctx context.Context, busca string) ([]Cadastro, error) {
	cadastros, err := s.repo.List(ctx, busca)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistencia, err)
	}
	return cadastros, nil
}

func validarCampos(env Envio) string {
	obrigatorios := []struct {
		valor string
		campo string
	}{
		{env.Nome, "nome"},
		{env.RG, "rg"},
		{env.TurmaCESD, "turma_cesd"},
	}
	for _, o := range obrigatorios {
		if err := util.RequireString(o.valor, o.campo); err != nil {
			return o.campo
		}
	}

	if err := util.ValidateEmail(env.Email); err != nil || !strings.Contains(env.Email, "@") {
		return "email"
	}

	contato := []struct {
		valor string
		campo string
	}{
		{env.Telefone, "telefone"},
		{env.Cep, "cep"},
		{env.Endereco, "endereco"},
		{env.Bairro, "bairro"},
		{env.Cidade, "cidade"},
	}
	for _, o := range contato {
		if err := util.RequireString(o.valor, o.campo); err != nil {
			return o.campo
		}
	}

	return ""
}
