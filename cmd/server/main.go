package main

import (
	"log"
	"net/http"
	"time"

	"cardclash/internal/archive"
	"cardclash/internal/battle"
	"cardclash/internal/cluster"
	"cardclash/internal/config"
	"cardclash/internal/game/card"
	"cardclash/internal/game/deck"
	"cardclash/internal/network"
	"cardclash/internal/session"
	"cardclash/internal/settlement"
)

const serviceName = "cardclash-coordinator"

func main() {
	log.Println("Starting CardClash coordinator...")
	cfg := config.Load()

	// Catálogo de cartas e gerador de mãos.
	catalog := card.NewSpeciesClient(cfg.SpeciesAPIURL)
	dealer := deck.NewGenerator(catalog, uint64(time.Now().UnixNano()))

	// Colaboradores externos. Cada um é opcional: sem a variável de
	// ambiente correspondente a integração fica desligada.
	var settler battle.Settler
	if cfg.NatsURL != "" {
		publisher, err := settlement.NewPublisher(cfg.NatsURL)
		if err != nil {
			log.Fatalf("Fatal: settlement publisher: %v", err)
		}
		defer publisher.Close()
		settler = publisher
	} else {
		log.Println("[Main] NATS_URL not set, settlement emission disabled.")
	}

	var archiver battle.Archiver
	if cfg.DatabaseURL != "" {
		db, err := archive.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Fatal: archive database: %v", err)
		}
		defer db.Close()
		repo := archive.NewRepo(db)
		if err := repo.EnsureSchema(); err != nil {
			log.Fatalf("Fatal: archive schema: %v", err)
		}
		archiver = repo
	} else {
		log.Println("[Main] DATABASE_URL not set, battle archiving disabled.")
	}

	// Handler de sessão e coordenador, ligados um ao outro. O handler
	// nasce primeiro porque o coordenador o usa como Notifier.
	gameHandler := session.NewGameHandler()
	coordinator := battle.NewCoordinator(dealer, gameHandler, settler, archiver, battle.Config{
		DwellTime:      cfg.DwellTime,
		ForfeitTimeout: cfg.ForfeitTimeout,
		WaitingExpiry:  cfg.WaitingExpiry,
	})
	gameHandler.BindCoordinator(coordinator)
	go coordinator.Run()
	defer coordinator.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", cluster.NewBasicHealthHandler())

	if cfg.ConsulAddrs != "" {
		client, err := cluster.NewConsulClient(cfg.ConsulAddrs)
		if err != nil {
			log.Fatalf("Fatal: consul: %v", err)
		}
		if err := cluster.RegisterService(client, serviceName, 8080, 8080); err != nil {
			log.Fatalf("Fatal: consul registration: %v", err)
		}
	}

	server := network.NewServer(gameHandler)
	if err := server.Listen(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("Fatal: server stopped: %v", err)
	}
}
