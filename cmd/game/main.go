package main

import (
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/chess-royale/internal/config"
	"github.com/Garsondee/chess-royale/internal/engine"
	"github.com/Garsondee/chess-royale/internal/ui"
)

func main() {
	var (
		mode     = flag.String("mode", "standard", "game mode: standard, bullet, diplomacy, zombies, sandbox, adventure")
		mapName  = flag.String("map", "plains", "map: plains, forest, desert, tundra, archipelago")
		diff     = flag.String("difficulty", "medium", "bot difficulty: easy, medium, hard")
		bots     = flag.Int("bots", 12, "number of bot agents")
		seed     = flag.Int64("seed", 0, "RNG seed (0 = random)")
		balPath  = flag.String("balance", "", "balance YAML path (default configs/balance.yaml)")
		logLevel = flag.String("log", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "royale",
	})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	bal, err := config.Load(*balPath)
	if err != nil {
		logger.Fatal("load balance", "err", err)
	}

	cfg := engine.MatchConfig{
		HumanColor: "#e8e8f0",
		Difficulty: parseDifficulty(*diff),
		GameMode:   parseMode(*mode),
		MapType:    parseMap(*mapName),
		BotCount:   *bots,
		Seed:       *seed,
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	eng, err := engine.NewEngine(cfg, bal, logger)
	if err != nil {
		logger.Fatal("match init", "err", err)
	}

	ebiten.SetWindowTitle("Chess Royale")
	ebiten.SetWindowSize(1120, 780)
	if err := ebiten.RunGame(ui.NewClient(eng)); err != nil {
		logger.Fatal("run", "err", err)
	}
}

func parseMode(s string) engine.GameMode {
	switch s {
	case "bullet":
		return engine.ModeBullet
	case "diplomacy":
		return engine.ModeDiplomacy
	case "zombies":
		return engine.ModeZombies
	case "sandbox":
		return engine.ModeSandbox
	case "adventure":
		return engine.ModeAdventure
	default:
		return engine.ModeStandard
	}
}

func parseMap(s string) engine.MapType {
	switch s {
	case "forest":
		return engine.MapForest
	case "desert":
		return engine.MapDesert
	case "tundra":
		return engine.MapTundra
	case "archipelago":
		return engine.MapArchipelago
	default:
		return engine.MapPlains
	}
}

func parseDifficulty(s string) engine.Difficulty {
	switch s {
	case "easy":
		return engine.Easy
	case "hard":
		return engine.Hard
	default:
		return engine.Medium
	}
}
