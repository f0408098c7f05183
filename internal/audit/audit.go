package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Eventos registrados na trilha de auditoria.
const (
	EventoAdminLogin       = "ADMIN_LOGIN"
	EventoAdminLoginFalhou = "ADMIN_LOGIN_FAILED"
	EventoAdminList        = "ADMIN_LIST"
	EventoAdminExport      = "ADMIN_EXPORT"
	EventoAdminImport      = "ADMIN_IMPORT"
	EventoCadastroEnviado  = "CADASTRO_ENVIADO"
)

const dbTimeout = 3 * time.Second

// Entrada é um evento já persistido da trilha.
type Entrada struct {
	ID       int64     `json:"id"`
	Evento   string    `json:"evento"`
	Detalhe  string    `json:"detalhe"`
	IP       string    `json:"ip"`
	CriadoEm time.Time `json:"criado_em"`
}

// Service grava eventos em tabela append-only e no log estruturado.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Record grava o evento. A escrita é best-effort: falha vira log de erro,
// nunca derruba a requisição que a originou.
func (s *Service) Record(ctx context.Context, evento, detalhe, ip string) {
	log.Info().Str("evento", evento).Str("detalhe", detalhe).Str("ip", ip).Msg("auditoria")

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx, `
        INSERT INTO auditoria (evento, detalhe, ip)
        VALUES ($1, $2, $3)
    `, evento, detalhe, ip)
	if err != nil {
		log.Error().Err(err).Str("evento", evento).Msg("falha ao gravar auditoria")
	}
}

// ListRecent devolve os eventos mais recentes, do mais novo para o mais antigo.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Entrada, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
        SELECT id, evento, detalhe, ip, criado_em
        FROM auditoria
        ORDER BY criado_em DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entradas []Entrada
	for rows.Next() {
		var e Entrada
		if err := rows.Scan(&e.ID, &e.Evento, &e.Detalhe, &e.IP, &e.CriadoEm); err != nil {
			return nil, err
		}
		entradas = append(entradas, e)
	}
	return entradas, rows.Err()
}
