// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"log/slog"

	"github.com/strfive/caster"
)

// slogger returns the logger installed with caster.SetLogger.
// All logging in render goes through this function.
func slogger() *slog.Logger { return caster.Logger() }
