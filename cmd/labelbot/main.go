package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"labelbot/internal/application"
	"labelbot/internal/config"
	"labelbot/internal/domain/entities"
	"labelbot/internal/infrastructure/database"
	"labelbot/internal/infrastructure/seed"
	"labelbot/internal/infrastructure/transfer"
)

const usage = `usage: labelbot <commande>

commandes:
  seed               initialise le store depuis les bundles embarqués
  import <fichier>   importe un fichier TOML de labels
  export <fichier>   exporte les labels du namespace vers un fichier TOML
  render <catégorie> <texte> [args...]   résout et formate un label (outil de test)
`

func main() {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur lors du chargement de la configuration")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur lors de l'initialisation de la base de données")
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur lors des migrations")
	}

	store := database.NewLabelStore(pool)

	switch os.Args[1] {
	case "seed":
		if err := seed.LoadEmbedded(ctx, store, cfg.Namespace, log.Logger); err != nil {
			log.Fatal().Err(err).Msg("❌ Erreur lors du seed")
		}

	case "import":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		f, err := os.Open(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Fichier d'import illisible")
		}
		defer f.Close()
		records, err := transfer.Decode(f)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Fichier d'import invalide")
		}
		if _, err := transfer.Import(ctx, store, records, log.Logger); err != nil {
			log.Fatal().Err(err).Msg("❌ Erreur lors de l'import")
		}

	case "export":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		records, err := transfer.Export(ctx, store, cfg.Namespace)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Erreur lors de l'export")
		}
		f, err := os.Create(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Fichier d'export incréable")
		}
		defer f.Close()
		if err := records.Encode(f); err != nil {
			log.Fatal().Err(err).Msg("❌ Erreur lors de l'écriture de l'export")
		}
		log.Info().Int("labels", len(records.Labels)).Str("fichier", os.Args[2]).Msg("✅ Export terminé")

	case "render":
		if len(os.Args) < 4 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		engine := application.NewResolutionEngine(store, nil, log.Logger)
		renderer := application.NewRenderer(engine)
		out, err := renderer.Render(ctx, cfg.Namespace, os.Args[2], os.Args[3],
			entities.RenderContext{Locale: cfg.DefaultLocale}, parseArgs(os.Args[4:])...)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Erreur lors du rendu")
		}
		fmt.Println(out)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// parseArgs maps CLI arguments to pattern arguments, promoting numeric
// literals so number/choice placeholders work from the command line.
func parseArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		if n, err := strconv.Atoi(s); err == nil {
			args[i] = n
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			args[i] = f
			continue
		}
		args[i] = s
	}
	return args
}
