// Package main is the carvetool entry point: compile a scene file and
// inspect or export the result.
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
	"github.com/Faultbox/carve/pkg/formats"
)

var (
	flagDump = flag.Bool("dump", false, "Print the merged BSP tree to stdout")
	flagOBJ  = flag.String("obj", "", "Export the merged surface to a Wavefront OBJ file")
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
		fmt.Fprintln(os.Stderr, "usage: carvetool [flags] <scene.yaml>")
		os.Exit(2)
	}

	mapPath := resolveMap(flag.Arg(0), cfg.Data.MapPaths)
	logger.Info("compiling scene", zap.String("path", mapPath))

	doc, err := mapfile.Load(mapPath)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	store := csg.NewStore()
	tree, handles, err := mapfile.Compile(doc, store)
	if err != nil {
		logger.Error("failed to compile scene", zap.Error(err))
		os.Exit(1)
	}
	defer tree.Destroy()

	stats := tree.Stats()
	logger.Info("scene compiled",
		zap.String("name", doc.Name),
		zap.Int("brushes", len(handles)),
		zap.Int("ops", len(doc.Ops)),
		zap.Int("nodes", stats.Nodes),
		zap.Int("leaves", stats.Leaves),
		zap.Int("solid_leaves", stats.SolidLeaves),
		zap.Int("polys", stats.Polys),
	)

	if *flagDump {
		tree.Dump(os.Stdout)
	}

	if *flagOBJ != "" {
		mesh := csg.BuildMesh(tree)
		if err := formats.SaveOBJ(*flagOBJ, mesh, doc.Name); err != nil {
			logger.Error("failed to export OBJ", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("exported OBJ",
			zap.String("path", *flagOBJ),
			zap.Int("triangles", mesh.TriangleCount()),
		)
	}
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
