// Command migrate creates the ledger schema and seeds a fresh database
// (presupuesto row and default categories) without starting the server.
//
//	go run ./cmd/migrate
//	go run ./cmd/migrate -capital 20000
package main

import (
	"flag"
	"os"
	"time"

	"wareinc/internal/config"
	"wareinc/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	capitalFlag := flag.String("capital", "", "capital inicial (por defecto CAPITAL_INICIAL)")
	soloEsquema := flag.Bool("solo-esquema", false, "no sembrar datos iniciales")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	capital := cfg.Capital
	if *capitalFlag != "" {
		capital, err = decimal.NewFromString(*capitalFlag)
		if err != nil || capital.IsNegative() {
			log.Fatal().Str("capital", *capitalFlag).Msg("capital invalido")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("schema up to date")

	if *soloEsquema {
		return
	}
	if err := infra.Seed(db, capital.Round(2)); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed done")
}
