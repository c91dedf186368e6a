package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/engine/debug"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
	"github.com/Faultbox/nimbus/internal/logger"
)

// ExportHeightmap samples the terrain around the configured camera position
// and writes it to path without opening a window.
func ExportHeightmap(cfg *config.Config, path string) error {
	mesh, err := terrain.NewMesh(meshOptions(cfg.Terrain), mgl32.Vec3(cfg.Camera.Position))
	if err != nil {
		return fmt.Errorf("building terrain: %w", err)
	}
	return writeHeightmap(mesh.Grid(), path)
}

func writeHeightmap(grid *terrain.HeightGrid, path string) error {
	if err := debug.ExportHeightmap(grid, path); err != nil {
		return err
	}
	logger.Info("heightmap exported",
		zap.String("path", path),
		zap.Int("cells", grid.Dim()),
		zap.Float32("min_elevation", grid.MinElevation()),
		zap.Float32("max_elevation", grid.MaxElevation()),
	)
	return nil
}
