// Package shader manages GPU programs built from GLSL sources, including
// hot reload with rollback.
package shader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/logger"
)

// ErrCompile wraps every compile or link failure.
var ErrCompile = errors.New("shader compile failed")

// StageSpec names the sources of a pipeline stage and the interface the
// renderer binds by.
type StageSpec struct {
	Name     string
	Vertex   string
	Fragment string
	Compute  string
	Uniforms []string
	Attribs  []string
}

// Stage is a compiled program plus its resolved location table.
type Stage struct {
	dev    gpu.Device
	loader *Loader
	spec   StageSpec

	program  uint32
	uniforms map[string]int32
	attribs  map[string]int32
}

// NewStage compiles the stage. A failure here is fatal for the caller.
func NewStage(dev gpu.Device, loader *Loader, spec StageSpec) (*Stage, error) {
	s := &Stage{dev: dev, loader: loader, spec: spec}

	program, uniforms, attribs, err := s.build()
	if err != nil {
		return nil, err
	}
	s.program, s.uniforms, s.attribs = program, uniforms, attribs

	logger.Debug("shader stage compiled",
		zap.String("stage", spec.Name),
		zap.Uint32("program", program),
	)
	return s, nil
}

// build compiles a fresh program and resolves its locations without
// touching the live state of s.
func (s *Stage) build() (uint32, map[string]int32, map[string]int32, error) {
	src, err := s.loader.Source(s.spec)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("stage %s: %w", s.spec.Name, err)
	}

	program, err := s.dev.CompileProgram(src)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: stage %s: %v", ErrCompile, s.spec.Name, err)
	}

	uniforms := make(map[string]int32, len(s.spec.Uniforms))
	for _, name := range s.spec.Uniforms {
		loc := s.dev.UniformLocation(program, name)
		if loc < 0 {
			// Inactive uniforms are optimized out by the driver.
			logger.Debug("uniform not active",
				zap.String("stage", s.spec.Name),
				zap.String("uniform", name),
			)
		}
		uniforms[name] = loc
	}

	attribs := make(map[string]int32, len(s.spec.Attribs))
	for _, name := range s.spec.Attribs {
		attribs[name] = s.dev.AttribLocation(program, name)
	}

	return program, uniforms, attribs, nil
}

// Reload recompiles the stage from its sources. On failure the previous
// program and locations stay in use and the error is returned.
func (s *Stage) Reload() error {
	program, uniforms, attribs, err := s.build()
	if err != nil {
		return err
	}

	old := s.program
	s.program, s.uniforms, s.attribs = program, uniforms, attribs
	s.dev.DeleteProgram(old)

	logger.Info("shader stage reloaded",
		zap.String("stage", s.spec.Name),
		zap.Uint32("program", program),
	)
	return nil
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.spec.Name }

// Program returns the active program handle.
func (s *Stage) Program() uint32 { return s.program }

// Use binds the active program.
func (s *Stage) Use() { s.dev.UseProgram(s.program) }

// Uniform returns the location of name, or -1.
func (s *Stage) Uniform(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Attrib returns the location of name, or -1.
func (s *Stage) Attrib(name string) int32 {
	if loc, ok := s.attribs[name]; ok {
		return loc
	}
	return -1
}

// Destroy releases the program.
func (s *Stage) Destroy() {
	if s.program != 0 {
		s.dev.DeleteProgram(s.program)
		s.program = 0
	}
}
