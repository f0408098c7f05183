package cadastro

import (
	"errors"
	"time"
)

// StatusConcluido é o único status que um cadastro gravado assume.
const StatusConcluido = "CONCLUÍDO"

var (
	// ErrNaoAutorizado indica CPF fora da base autorizada.
	ErrNaoAutorizado = errors.New("cpf não consta na lista oficial de autorizados")
	// ErrJaCadastrado indica cadastro já realizado quando a política bloqueia reenvio.
	ErrJaCadastrado = errors.New("o cadastro para este cpf já foi realizado")
	// ErrDuplicado indica tentativa de segunda gravação sob política de bloqueio.
	ErrDuplicado = errors.New("tentativa de duplicidade bloqueada: cpf já cadastrado")
	// ErrConsentimentoObrigatorio indica envio sem o aceite LGPD.
	ErrConsentimentoObrigatorio = errors.New("consentimento é obrigatório")
	// ErrNotFound indica cadastro inexistente.
	ErrNotFound = errors.New("cadastro não encontrado")
	// ErrPersistencia indica falha ao gravar ou ler do banco.
	ErrPersistencia = errors.New("falha de persistência")
)

// ErroValidacao aponta o primeiro campo inválido do envio.
type ErroValidacao struct {
	Campo string
}

func (e *ErroValidacao) Error() string {
	return "campo inválido: " + e.Campo
}

// Cadastro é o registro durável de um recadastramento, único por CPF.
type Cadastro struct {
	ID            int64     `json:"id"`
	CPF           string    `json:"cpf"`
	Nome          string    `json:"nome"`
	Estado        string    `json:"estado"`
	TurmaCESD     string    `json:"turma_cesd"`
	RG            string    `json:"rg"`
	CertidaoObito *string   `json:"certidao_obito,omitempty"`
	Email         string    `json:"email"`
	Telefone      string    `json:"telefone"`
	Endereco      string    `json:"endereco"`
	Bairro        string    `json:"bairro"`
	Cidade        string    `json:"cidade"`
	CEP           string    `json:"cep"`
	DataEnvio     time.Time `json:"data_envio"`
	Status        string    `json:"status"`
}

// Envio é o payload de submissão antes da validação.
type Envio struct {
	CPF           string  `json:"cpf"`
	Nome          string  `json:"nome"`
	Estado        string  `json:"estado"`
	TurmaCESD     string  `json:"turma_cesd"`
	RG            string  `json:"rg"`
	CertidaoObito *string `json:"certidao_obito,omitempty"`
	Email         string  `json:"email"`
	Telefone      string  `json:"telefone"`
	Endereco      string  `json:"endereco"`
	Bairro        string  `json:"bairro"`
	Cidade        string  `json:"cidade"`
	Cep           string  `json:"cep"`
	Consentimento bool    `json:"consentimento"`
}

// Elegibilidade é a resposta do gate de admissão: dados conhecidos do
// titular, pré-preenchidos com o cadastro anterior quando houver.
type Elegibilidade struct {
	CPF               string  `json:"cpf"`
	Nome              string  `json:"nome"`
	Estado            string  `json:"estado"`
	TurmaCESD         string  `json:"turma_cesd"`
	RG                string  `json:"rg"`
	Email             string  `json:"email,omitempty"`
	Telefone          string  `json:"telefone,omitempty"`
	Endereco          string  `json:"endereco,omitempty"`
	Bairro            string  `json:"bairro,omitempty"`
	Cidade            string  `json:"cidade,omitempty"`
	CEP               string  `json:"cep,omitempty"`
	CertidaoObito     *string `json:"certidao_obito,omitempty"`
	CadastroRealizado bool    `json:"cadastro_realizado"`
}
