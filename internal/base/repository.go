package base

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aafab/recadastro/internal/db"
)

const dbTimeout = 3 * time.Second

// Repository persiste a base autorizada em Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Lookup busca um titular pelo CPF já normalizado.
func (r *Repository) Lookup(ctx context.Context, cpfDigits string) (Autorizado, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var a Autorizado
	err := r.db.QueryRow(ctx, `
        SELECT cpf, nome, estado, turma_cesd, rg
        FROM base_autorizada
        WHERE cpf = $1
    `, cpfDigits).Scan(&a.CPF, &a.Nome, &a.Estado, &a.TurmaCESD, &a.RG)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Autorizado{}, ErrNotFound
		}
		return Autorizado{}, err
	}
	return a, nil
}

// BulkInsert insere os CPFs que ainda não existem, com campos placeholder.
// Nunca sobrescreve registros existentes; devolve quantos foram inseridos.
func (r *Repository) BulkInsert(ctx context.Context, cpfs []string) (int, error) {
	added := 0
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, digits := range cpfs {
			tag, err := tx.Exec(ctx, `
                INSERT INTO base_autorizada (cpf, nome, estado, turma_cesd, rg)
                VALUES ($1, $2, $3, $4, '')
                ON CONFLICT (cpf) DO NOTHING
            `, digits, PlaceholderNome(digits), EstadoPadrao, TurmaPadrao)
			if err != nil {
				return err
			}
			added += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// List devolve a base completa com o status derivado de cadastro.
func (r *Repository) List(ctx context.Context) ([]AutorizadoStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
        SELECT b.cpf, b.nome, b.estado, b.turma_cesd, b.rg, b.criado_em,
               EXISTS (SELECT 1 FROM cadastros c WHERE c.cpf = b.cpf) AS cadastro_realizado
        FROM base_autorizada b
        ORDER BY b.cpf
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lista []AutorizadoStatus
	for rows.Next() {
		var s AutorizadoStatus
		if err := rows.Scan(&s.CPF, &s.Nome, &s.Estado, &s.TurmaCESD, &s.RG, &s.CriadoEm, &s.CadastroRealizado); err != nil {
			return nil, err
		}
		lista = append(lista, s)
	}
	return lista, rows.Err()
}
