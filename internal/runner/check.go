// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"

	"github.com/dbast/checkcommit/internal/build"
	"github.com/dbast/checkcommit/internal/changeset"
	"github.com/dbast/checkcommit/internal/config"
	"github.com/dbast/checkcommit/internal/logger"
	"github.com/dbast/checkcommit/internal/similarity"
)

// Deps contains dependencies injected into checks.
type Deps struct {
	RepoRoot   string
	Config     *config.Config
	Changes    *changeset.Extractor
	Similarity similarity.Engine
	Builder    build.Builder
	Log        *logger.Logger
}

// Check is one policy of the gate.
type Check interface {
	// ID returns the unique identifier (e.g. "banned-api").
	ID() string

	// Description is a one-line summary for listings.
	Description() string

	// Run evaluates the policy. Checks never depend on each other.
	Run(ctx context.Context, deps *Deps) Result
}

// Reporter receives each result as soon as it is known.
type Reporter interface {
	Result(res Result)
}
