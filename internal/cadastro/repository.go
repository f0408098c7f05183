package cadastro

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

const uniqueViolation = "23505"

const cadastroColumns = `
    id, cpf, nome, estado, turma_cesd, rg, certidao_obito,
    email, telefone, endereco, bairro, cidade, cep, data_envio, status`

// Repository persiste cadastros em Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func scanCadastro(row pgx.Row) (Cadastro, error) {
	var c Cadastro
	err := row.Scan(
		&c.ID, &c.CPF, &c.Nome, &c.Estado, &c.TurmaCESD, &c.RG, &c.CertidaoObito,
		&c.Email, &c.Telefone, &c.Endereco, &c.Bairro, &c.Cidade, &c.CEP,
		&c.DataEnvio, &c.Status,
	)
	return c, err
}

// GetByCPF busca o cadastro de um CPF já normalizado.
func (r *Repository) GetByCPF(ctx context.Context, cpfDigits string) (Cadastro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	c, err := scanCadastro(r.db.QueryRow(ctx, `
        SELECT `+cadastroColumns+`
        FROM cadastros
        WHERE cpf = $1
    `, cpfDigits))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cadastro{}, ErrNotFound
		}
		return Cadastro{}, err
	}
	return c, nil
}

// Upsert grava o cadastro chaveado pelo CPF: insere na primeira vez e
// substitui o registro inteiro nas seguintes, renovando data_envio.
// A unicidade é garantida pela constraint, nunca por checagem prévia.
func (r *Repository) Upsert(ctx context.Context, env Envio) (Cadastro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return scanCadastro(r.db.QueryRow(ctx, `
        INSERT INTO cadastros
            (cpf, nome, estado, turma_cesd, rg, certidao_obito,
             email, telefone, endereco, bairro, cidade, cep, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (cpf) DO UPDATE SET
            nome = EXCLUDED.nome,
            estado = EXCLUDED.estado,
            turma_cesd = EXCLUDED.turma_cesd,
            rg = EXCLUDED.rg,
            certidao_obito = EXCLUDED.certidao_obito,
            email = EXCLUDED.email,
            telefone = EXCLUDED.telefone,
            endereco = EXCLUDED.endereco,
            bairro = EXCLUDED.bairro,
            cidade = EXCLUDED.cidade,
            cep = EXCLUDED.cep,
            status = EXCLUDED.status,
            data_envio = now()
        RETURNING `+cadastroColumns, env.CPF, env.Nome, env.Estado, env.TurmaCESD, env.RG, env.CertidaoObito,
		env.Email, env.Telefone, env.Endereco, env.Bairro, env.Cidade, env.Cep, StatusConcluido))
}

// Insert grava apenas a primeira submissão; a segunda devolve ErrDuplicado.
func (r *Repository) Insert(ctx context.Context, env Envio) (Cadastro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	c, err := scanCadastro(r.db.QueryRow(ctx, `
        INSERT INTO cadastros
            (cpf, nome, estado, turma_cesd, rg, certidao_obito,
             email, telefone, endereco, bairro, cidade, cep, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING `+cadastroColumns, env.CPF, env.Nome, env.Estado, env.TurmaCESD, env.RG, env.CertidaoObito,
		env.Email, env.Telefone, env.Endereco, env.Bairro, env.Cidade, env.Cep, StatusConcluido))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Cadastro{}, ErrDuplicado
		}
		return Cadastro{}, err
	}
	return c, nil
}

// List devolve os cadastros do mais recente para o mais antigo, com filtro
// opcional case-insensitive por nome, CPF ou e-mail.
func (r *Repository) List(ctx context.Context, busca string) ([]Cadastro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `
        SELECT ` + cadastroColumns + `
        FROM cadastros`
	var args []any
	if strings.TrimSpace(busca) != "" {
		query += `
        WHERE nome ILIKE '%' || $1 || '%'
           OR cpf ILIKE '%' || $1 || '%'
           OR email ILIKE '%' || $1 || '%'`
		args = append(args, strings.TrimSpace(busca))
	}
	query += `
        ORDER BY data_envio DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cadastros []Cadastro
	for rows.Next() {
		c, err := scanCadastro(rows)
		if err != nil {
			return nil, err
		}
		cadastros = append(cadastros, c)
	}
	return cadastros, rows.Err()
}
