// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"

	"github.com/dbast/checkcommit/internal/runner"
	"github.com/dbast/checkcommit/internal/scanner"
)

// DriverImages requires a range adding a driver to also add a test image.
type DriverImages struct{}

func (c *DriverImages) ID() string { return "driver-images" }

func (c *DriverImages) Description() string {
	return "new drivers must come with a test image"
}

func (c *DriverImages) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config.Drivers
	added, err := deps.Changes.AddedFiles(ctx)
	if err != nil {
		return runner.Erroredf(c.ID(), err, "listing added files")
	}

	drivers := scanner.FilterFiles(added, scanner.FilterOptions{
		IncludeExtensions: deps.Config.SourceExtensions,
		UnderDirs:         []string{cfg.Dir},
	})
	if len(drivers) == 0 {
		return runner.Pass(c.ID(), "no new drivers")
	}

	images := scanner.FilterFiles(added, scanner.FilterOptions{
		UnderDirs: []string{cfg.TestImagesDir},
	})
	if len(images) > 0 {
		return runner.Pass(c.ID(), fmt.Sprintf("%d drivers, %d images", len(drivers), len(images)))
	}
	return runner.Fail(c.ID(), runner.Failure{
		Message: "All new drivers should include a test image",
		Details: drivers,
	})
}
