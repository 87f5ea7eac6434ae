// Package main is the carveview entry point: compile a scene file and open
// it in the interactive viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/carve/internal/config"
	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/internal/logger"
	"github.com/Faultbox/carve/internal/mapfile"
	"github.com/Faultbox/carve/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: carveview [flags] <scene.yaml>")
		os.Exit(2)
	}

	mapPath := resolveMap(flag.Arg(0), cfg.Data.MapPaths)
	logger.Info("loading scene", zap.String("path", mapPath))

	doc, err := mapfile.Load(mapPath)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	tree, _, err := mapfile.Compile(doc, csg.NewStore())
	if err != nil {
		logger.Error("failed to compile scene", zap.Error(err))
		os.Exit(1)
	}
	defer tree.Destroy()

	mesh := csg.BuildMesh(tree)
	logger.Info("scene ready",
		zap.String("name", doc.Name),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	v, err := viewer.New(cfg, mesh, "Carve - "+doc.Name)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// resolveMap returns the first existing candidate for the scene path,
// searching the configured map directories for relative names.
func resolveMap(arg string, searchPaths []string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, arg)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return arg
}
