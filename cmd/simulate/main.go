package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/habitgrid/grid-engine-go/internal/boardfile"
	"github.com/habitgrid/grid-engine-go/internal/config"
	"github.com/habitgrid/grid-engine-go/internal/engine"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	boardPath  = flag.String("board", "", "path to board fixture file")
	triggerX   = flag.Int("x", 0, "trigger position x")
	triggerY   = flag.Int("y", 0, "trigger position y")
	replayDir  = flag.String("replay-dir", "", "directory to save chain replays (disabled when empty)")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting habitgrid simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("board", *boardPath),
	)

	if *boardPath == "" {
		logger.Fatal("a board fixture is required (-board)")
	}
	board, err := boardfile.Load(*boardPath)
	if err != nil {
		logger.Fatal("failed to load board", zap.Error(err))
	}
	snap, err := board.Snapshot()
	if err != nil {
		logger.Fatal("failed to build board snapshot", zap.Error(err))
	}
	logger.Info("board loaded",
		zap.Int("width", board.Width),
		zap.Int("height", board.Height),
		zap.Int("blocks", snap.Len()),
	)

	controller, recorder, err := buildController(cfg, snap, logger)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	trigger := grid.Position{X: *triggerX, Y: *triggerY}
	result := controller.ProcessTrigger(trigger)

	logger.Info("chain complete",
		zap.String("chain_id", result.ChainID),
		zap.String("termination", string(result.Termination)),
		zap.Int("total_depth", result.TotalDepth),
		zap.Int("patterns_executed", len(result.Outcomes)),
		zap.Int64("total_reward", result.Rewards.Total()),
	)
	for resource, amount := range result.Rewards {
		logger.Info("reward earned",
			zap.String("resource", string(resource)),
			zap.Int64("amount", amount),
		)
	}
	for _, outcome := range result.Outcomes {
		logger.Info("pattern executed",
			zap.String("variant", string(outcome.Variant)),
			zap.Int("depth", outcome.Depth),
			zap.Int("removed", len(outcome.Removed)),
			zap.Int("spawned", len(outcome.Spawned)),
		)
	}

	if recorder != nil {
		if err := recorder.SaveReplay(result.ChainID); err != nil {
			logger.Warn("failed to save replay", zap.Error(err))
		}
	}
}

// buildController wires the recognizers, executor, and controller from
// configuration around a static snapshot of the fixture board.
func buildController(cfg *config.Config, snap *grid.Snapshot, logger *zap.Logger) (*engine.ChainController, *engine.ChainRecorder, error) {
	recipes, err := cfg.RecipeBook()
	if err != nil {
		return nil, nil, err
	}
	unlocks, err := cfg.UnlockState()
	if err != nil {
		return nil, nil, err
	}
	adjacencyRules, err := cfg.AdjacencyRules()
	if err != nil {
		return nil, nil, err
	}

	recognizers := []patterns.Recognizer{
		patterns.NewMatchRecognizer(),
		patterns.NewTierUpRecognizer(),
		patterns.NewTransmuteRecognizer(),
		patterns.NewAdjacencyRecognizer(adjacencyRules),
	}
	executor := engine.NewExecutor(cfg.RewardTable())
	provider := engine.SnapshotFunc(func() (*grid.Snapshot, error) { return snap, nil })

	opts := []engine.ControllerOption{
		engine.WithMaxDepth(cfg.Engine.MaxChainDepth),
		engine.WithResolveOptions(patterns.ResolveOptions{AdjacencyOverlap: cfg.Engine.AdjacencyOverlap}),
	}
	var recorder *engine.ChainRecorder
	if *replayDir != "" {
		recorder = engine.NewChainRecorder(logger, *replayDir)
		recorder.RecordAll()
		opts = append(opts, engine.WithRecorder(recorder))
	}

	controller := engine.NewChainController(provider, recognizers, unlocks, recipes, executor, logger, opts...)
	return controller, recorder, nil
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
