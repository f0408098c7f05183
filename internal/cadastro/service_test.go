package cadastro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aafab/recadastro/internal/base"
	"github.com/aafab/recadastro/internal/config"
)

const cpfValido = "11144477735"

type stubRepo struct {
	rows    map[string]Cadastro
	nextID  int64
	falhar  bool
	writes  int
	lastEnv Envio
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: make(map[string]Cadastro)}
}

func (s *stubRepo) materialize(env Envio, id int64) Cadastro {
	return Cadastro{
		ID: id, CPF: env.CPF, Nome: env.Nome, Estado: env.Estado,
		TurmaCESD: env.TurmaCESD, RG: env.RG, CertidaoObito: env.CertidaoObito,
		Email: env.Email, Telefone: env.Telefone, Endereco: env.Endereco,
		Bairro: env.Bairro, Cidade: env.Cidade, CEP: env.Cep,
		DataEnvio: time.Now(), Status: StatusConcluido,
	}
}

func (s *stubRepo) GetByCPF(_ context.Context, cpfDigits string) (Cadastro, error) {
	if s.falhar {
		return Cadastro{}, errors.New("banco fora do ar")
	}
	c, ok := s.rows[cpfDigits]
	if !ok {
		return Cadastro{}, ErrNotFound
	}
	return c, nil
}

func (s *stubRepo) Upsert(_ context.Context, env Envio) (Cadastro, error) {
	if s.falhar {
		return Cadastro{}, errors.New("banco fora do ar")
	}
	s.writes++
	s.lastEnv = env
	id := s.nextID + 1
	if existente, ok := s.rows[env.CPF]; ok {
		id = existente.ID
	} else {
		s.nextID = id
	}
	c := s.materialize(env, id)
	s.rows[env.CPF] = c
	return c, nil
}

func (s *stubRepo) Insert(_ context.Context, env Envio) (Cadastro, error) {
	if s.falhar {
		return Cadastro{}, errors.New("banco fora do ar")
	}
	if _, ok := s.rows[env.CPF]; ok {
		return Cadastro{}, ErrDuplicado
	}
	s.writes++
	s.nextID++
	c := s.materialize(env, s.nextID)
	s.rows[env.CPF] = c
	return c, nil
}

func (s *stubRepo) List(_ context.Context, _ string) ([]Cadastro, error) {
	var out []Cadastro
	for _, c := range s.rows {
		out = append(out, c)
	}
	return out, nil
}

func envioValido() Envio {
	return Envio{
		CPF:           cpfValido,
		Nome:          "Maria da Silva",
		Estado:        "SP",
		TurmaCESD:     "2024/2",
		RG:            "123456789",
		Email:         "a@b.com",
		Telefone:      "(11) 98765-4321",
		Endereco:      "Rua das Flores, 100",
		Bairro:        "Centro",
		Cidade:        "São Paulo",
		Cep:           "01310-100",
		Consentimento: true,
	}
}

func novoService(t *testing.T, politica string) (*Service, *stubRepo) {
	t.Helper()
	registry := base.NewStaticRegistry([]string{cpfValido})
	repo := newStubRepo()
	return NewService(registry, repo, politica, nil), repo
}

func TestVerificarNaoAutorizado(t *testing.T) {
	svc, _ := novoService(t, config.PoliticaUpsert)

	_, err := svc.Verificar(context.Background(), "529.982.247-25")
	if !errors.Is(err, ErrNaoAutorizado) {
		t.Fatalf("err = %v, esperado ErrNaoAutorizado", err)
	}
}

func TestVerificarPrimeiroAcesso(t *testing.T) {
	svc, _ := novoService(t, config.PoliticaUpsert)

	eleg, err := svc.Verificar(context.Background(), "111.444.777-35")
	if err != nil {
		t.Fatalf("Verificar: %v", err)
	}
	if eleg.CPF != cpfValido {
		t.Errorf("cpf = %q", eleg.CPF)
	}
	if eleg.CadastroRealizado {
		t.Error("cadastro_realizado deveria ser false antes do envio")
	}
	if eleg.Nome != "TITULAR - 111...35" {
		t.Errorf("nome placeholder = %q", eleg.Nome)
	}
}

func TestEnviarSemConsentimentoNaoGrava(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaUpsert)

	env := envioValido()
	env.Consentimento = false

	_, err := svc.Enviar(context.Background(), env)
	if !errors.Is(err, ErrConsentimentoObrigatorio) {
		t.Fatalf("err = %v, esperado ErrConsentimentoObrigatorio", err)
	}
	if repo.writes != 0 {
		t.Errorf("consentimento negado gravou %d vezes", repo.writes)
	}
}

func TestEnviarCamposObrigatorios(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaUpsert)

	cases := []struct {
		campo  string
		mutate func(*Envio)
	}{
		{"nome", func(e *Envio) { e.Nome = "  " }},
		{"rg", func(e *Envio) { e.RG = "" }},
		{"turma_cesd", func(e *Envio) { e.TurmaCESD = "" }},
		{"email", func(e *Envio) { e.Email = "sem-arroba" }},
		{"email", func(e *Envio) { e.Email = "" }},
		{"telefone", func(e *Envio) { e.Telefone = "" }},
		{"cep", func(e *Envio) { e.Cep = "" }},
		{"endereco", func(e *Envio) { e.Endereco = "" }},
		{"bairro", func(e *Envio) { e.Bairro = "" }},
		{"cidade", func(e *Envio) { e.Cidade = "" }},
	}

	for _, tc := range cases {
		env := envioValido()
		tc.mutate(&env)

		_, err := svc.Enviar(context.Background(), env)
		var valErr *ErroValidacao
		if !errors.As(err, &valErr) {
			t.Errorf("campo %s: err = %v, esperado ErroValidacao", tc.campo, err)
			continue
		}
		if valErr.Campo != tc.campo {
			t.Errorf("campo reportado = %q, esperado %q", valErr.Campo, tc.campo)
		}
	}

	if repo.writes != 0 {
		t.Errorf("envios inválidos gravaram %d vezes", repo.writes)
	}
}

func TestEnviarRevalidaCPFNoServidor(t *testing.T) {
	svc, _ := novoService(t, config.PoliticaUpsert)

	env := envioValido()
	env.CPF = "11144477734" // dígito verificador errado

	_, err := svc.Enviar(context.Background(), env)
	var valErr *ErroValidacao
	if !errors.As(err, &valErr) || valErr.Campo != "cpf" {
		t.Fatalf("err = %v, esperado ErroValidacao{cpf}", err)
	}
}

func TestEnviarForaDaBase(t *testing.T) {
	svc, _ := novoService(t, config.PoliticaUpsert)

	env := envioValido()
	env.CPF = "52998224725" // checksum válido, mas fora da base

	_, err := svc.Enviar(context.Background(), env)
	if !errors.Is(err, ErrNaoAutorizado) {
		t.Fatalf("err = %v, esperado ErrNaoAutorizado", err)
	}
}

func TestEnviarNormalizaContato(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaUpsert)

	if _, err := svc.Enviar(context.Background(), envioValido()); err != nil {
		t.Fatalf("Enviar: %v", err)
	}

	if repo.lastEnv.Telefone != "11987654321" {
		t.Errorf("telefone gravado = %q, esperado só dígitos", repo.lastEnv.Telefone)
	}
	if repo.lastEnv.Cep != "01310100" {
		t.Errorf("cep gravado = %q, esperado só dígitos", repo.lastEnv.Cep)
	}
}

func TestFluxoCompletoComReenvio(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaUpsert)
	ctx := context.Background()

	gravado, err := svc.Enviar(ctx, envioValido())
	if err != nil {
		t.Fatalf("primeiro envio: %v", err)
	}
	if gravado.Status != StatusConcluido {
		t.Errorf("status = %q", gravado.Status)
	}
	if gravado.DataEnvio.IsZero() {
		t.Error("data_envio não preenchida")
	}

	eleg, err := svc.Verificar(ctx, cpfValido)
	if err != nil {
		t.Fatalf("Verificar após envio: %v", err)
	}
	if !eleg.CadastroRealizado {
		t.Error("cadastro_realizado deveria ser true após envio")
	}
	if eleg.Email != "a@b.com" {
		t.Errorf("pré-preenchimento ausente: email = %q", eleg.Email)
	}

	// reenvio substitui, nunca cria segunda linha
	env := envioValido()
	env.Nome = "Maria da Silva Santos"
	segundo, err := svc.Enviar(ctx, env)
	if err != nil {
		t.Fatalf("reenvio: %v", err)
	}
	if segundo.ID != gravado.ID {
		t.Errorf("reenvio criou novo id: %d != %d", segundo.ID, gravado.ID)
	}
	if len(repo.rows) != 1 {
		t.Errorf("cadastros na base = %d, esperado 1", len(repo.rows))
	}
	if repo.rows[cpfValido].Nome != "Maria da Silva Santos" {
		t.Error("reenvio não substituiu os campos")
	}
}

func TestPoliticaBloqueioRejeitaReenvio(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaBloqueio)
	ctx := context.Background()

	if _, err := svc.Enviar(ctx, envioValido()); err != nil {
		t.Fatalf("primeiro envio: %v", err)
	}

	_, err := svc.Enviar(ctx, envioValido())
	if !errors.Is(err, ErrDuplicado) {
		t.Fatalf("segundo envio: err = %v, esperado ErrDuplicado", err)
	}
	if len(repo.rows) != 1 {
		t.Errorf("cadastros na base = %d, esperado 1", len(repo.rows))
	}

	// sob bloqueio o gate nega acesso ao formulário
	_, err = svc.Verificar(ctx, cpfValido)
	if !errors.Is(err, ErrJaCadastrado) {
		t.Fatalf("Verificar: err = %v, esperado ErrJaCadastrado", err)
	}
}

func TestEnviarPersistenciaIndisponivel(t *testing.T) {
	svc, repo := novoService(t, config.PoliticaUpsert)
	repo.falhar = true

	_, err := svc.Enviar(context.Background(), envioValido())
	if !errors.Is(err, ErrPersistencia) {
		t.Fatalf("err = %v, esperado ErrPersistencia", err)
	}
}
