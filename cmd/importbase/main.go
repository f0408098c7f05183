package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aafab/recadastro/internal/base"
	"github.com/aafab/recadastro/internal/db"
)

// importbase carrega um arquivo de CPFs (um por linha) na base autorizada.
// Linhas inválidas são descartadas e CPFs já presentes são ignorados.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	arquivo := flag.String("arquivo", "", "caminho do arquivo com CPFs, um por linha")
	flag.Parse()

	if *arquivo == "" {
		fmt.Fprintln(os.Stderr, "usage: importbase -arquivo <cpfs.txt>")
		os.Exit(1)
	}

	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	raws, err := base.ReadSeedFile(*arquivo)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível ler o arquivo")
	}

	service := base.NewService(base.NewRepository(pool))
	result, err := service.BulkImport(ctx, raws)
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao importar base")
	}

	log.Info().Int("adicionados", result.Adicionados).Int("ignorados", result.Ignorados).
		Str("arquivo", *arquivo).Msg("importação concluída")
}
