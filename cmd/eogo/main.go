package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/handler"
	"github.com/eogo/server/internal/httpapi"
	gonet "github.com/eogo/server/internal/net"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             eogo  v0.1.0                  \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       Endless Online game server          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 45 - len(title)
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("EOGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	printSection("database")

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()

	db, err := persist.NewDB(bootCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(bootCtx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	accountRepo := persist.NewAccountRepo(db)
	charRepo := persist.NewCharacterRepo(db)
	boardRepo := persist.NewBoardRepo(db)
	guildRepo := persist.NewGuildRepo(db)
	banRepo := persist.NewBanRepo(db)
	tokenRepo := persist.NewTokenRepo(db)

	printSection("content")

	items, err := data.LoadItems(filepath.Join(cfg.Data.PubDir, "items.yaml"))
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	printStat("items", items.Len())

	npcs, err := data.LoadNpcs(filepath.Join(cfg.Data.PubDir, "npcs.yaml"))
	if err != nil {
		return fmt.Errorf("load npcs: %w", err)
	}
	printStat("npcs", npcs.Len())

	classes, err := data.LoadClasses(filepath.Join(cfg.Data.PubDir, "classes.yaml"))
	if err != nil {
		return fmt.Errorf("load classes: %w", err)
	}
	printStat("classes", classes.Len())

	spells, err := data.LoadSpells(filepath.Join(cfg.Data.PubDir, "spells.yaml"))
	if err != nil {
		return fmt.Errorf("load spells: %w", err)
	}
	printStat("spells", spells.Len())

	shops, err := data.LoadShops(filepath.Join(cfg.Data.PubDir, "shops.yaml"))
	if err != nil {
		return fmt.Errorf("load shops: %w", err)
	}
	printStat("shops", shops.Len())

	inns, err := data.LoadInns(filepath.Join(cfg.Data.PubDir, "inns.yaml"))
	if err != nil {
		return fmt.Errorf("load inns: %w", err)
	}
	printStat("inns", inns.Len())

	skillMasters, err := data.LoadSkillMasters(filepath.Join(cfg.Data.PubDir, "skill_masters.yaml"))
	if err != nil {
		return fmt.Errorf("load skill masters: %w", err)
	}
	printStat("skill masters", skillMasters.Len())

	arenas, err := data.LoadArenas(cfg.Data.ArenasFile)
	if err != nil {
		return fmt.Errorf("load arenas: %w", err)
	}
	printStat("arenas", arenas.Len())

	quests, err := data.LoadQuests(cfg.Data.QuestsDir, log)
	if err != nil {
		return fmt.Errorf("load quests: %w", err)
	}
	printStat("quests", quests.Len())

	lang, err := data.LoadLang(cfg.Data.LangDir, cfg.Data.Lang)
	if err != nil {
		return fmt.Errorf("load lang: %w", err)
	}

	maps, err := data.LoadMaps(cfg.Data.MapsDir)
	if err != nil {
		return fmt.Errorf("load maps: %w", err)
	}
	printStat("maps", maps.Len())

	news := loadNews("config/news.txt", cfg.Server.Name)
	fmt.Println()

	worldDeps := &world.Deps{
		Cfg: cfg,
		Log: log,

		Items:        items,
		Npcs:         npcs,
		Classes:      classes,
		Spells:       spells,
		Shops:        shops,
		Inns:         inns,
		SkillMasters: skillMasters,
		Arenas:       arenas,
		Quests:       quests,
		Maps:         maps,
		Lang:         lang,

		Chars:  charRepo,
		Boards: boardRepo,
		Guilds: guildRepo,
		Bans:   banRepo,
	}
	w := world.NewWorld(worldDeps)

	reg := packet.NewRegistry(log.Named("packet"))
	handler.RegisterAll(reg, &handler.Deps{
		Config:      cfg,
		Log:         log.Named("handler"),
		World:       w,
		AccountRepo: accountRepo,
		CharRepo:    charRepo,
		BanRepo:     banRepo,
		GuildRepo:   guildRepo,
		Items:       items,
		Classes:     classes,
		Maps:        maps,
		News:        news,
	})

	netServer, err := gonet.NewServer(
		cfg.Server.BindAddress,
		cfg.Server.InQueueSize,
		cfg.Server.OutQueueSize,
		cfg.Server.PacketsPerSecond,
		cfg.Server.WriteTimeout,
		log.Named("net"),
	)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	var api *httpapi.Server
	if cfg.HTTP.Enabled {
		api = httpapi.New(cfg, log.Named("http"), accountRepo, charRepo, tokenRepo)
		go func() {
			if err := api.Run(); err != nil {
				log.Error("http api stopped", zap.Error(err))
			}
		}()
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	if cfg.HTTP.Enabled {
		printReady(fmt.Sprintf("http api on %s", cfg.HTTP.BindAddress))
	}
	fmt.Println()

	for {
		select {
		case conn := <-netServer.NewConns():
			p := player.New(conn, w, worldDeps, reg)
			go p.Run(ctx)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			netServer.Shutdown()
			if api != nil {
				stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
				api.Shutdown(stopCtx)
				cancelStop()
			}
			cancel()
			w.Shutdown()
			// Give the final character saves a moment to land.
			time.Sleep(2 * time.Second)
			log.Info("server stopped")
			return nil
		}
	}
}

// loadNews reads up to nine lines of login news. Missing file means a
// single greeting line.
func loadNews(path, serverName string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{"Welcome to " + serverName}
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(out) < 9 {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return []string{"Welcome to " + serverName}
	}
	return out
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
