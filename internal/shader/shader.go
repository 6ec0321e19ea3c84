// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds the WGSL source of the sprite pipeline and the
// helpers that turn it into GPU shader modules.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed sprite.wgsl
var spriteSource string

// Entry points of the sprite shader.
const (
	EntryVertex   = "vs_main"
	EntryFragment = "fs_main"
)

// Bind group indices used by the sprite shader.
const (
	GroupMaterial = 0
	GroupCamera   = 1
)

// ErrEmptySource is returned when the embedded shader source is missing.
var ErrEmptySource = errors.New("shader: sprite shader source is empty")

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Sprite returns the WGSL source of the sprite shader.
func Sprite() string {
	return spriteSource
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	if wgsl == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(words) == 0 || words[0] != spirvMagic {
		return nil, fmt.Errorf("shader: compiler produced invalid SPIR-V header")
	}
	return words, nil
}

// Validate runs the sprite shader through the WGSL compiler so that
// syntax and binding errors surface at setup rather than at first draw.
func Validate() error {
	_, err := CompileSPIRV(spriteSource)
	return err
}

// IsUnsupported reports whether err is the compiler declining a feature it
// does not implement yet, as opposed to a defect in the source. Backends
// that compile WGSL themselves can still accept such a shader.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported")
}

// NewModule creates the sprite shader module on device from WGSL source.
func NewModule(device hal.Device, label string) (hal.ShaderModule, error) {
	if spriteSource == "" {
		return nil, ErrEmptySource
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: spriteSource},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create module %q: %w", label, err)
	}
	return module, nil
}

// NewModuleSPIRV creates the sprite shader module from precompiled SPIR-V,
// for backends that do not accept WGSL directly.
func NewModuleSPIRV(device hal.Device, label string) (hal.ShaderModule, error) {
	words, err := CompileSPIRV(spriteSource)
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create module %q: %w", label, err)
	}
	return module, nil
}
