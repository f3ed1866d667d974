package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbast/checkcommit/internal/git"
	"github.com/dbast/checkcommit/internal/git/gittest"
	"github.com/dbast/checkcommit/internal/runner"
)

func TestDriverImages(t *testing.T) {
	tests := []struct {
		name    string
		changes []git.FileChange
		want    runner.Status
	}{
		{
			name:    "no files",
			changes: nil,
			want:    runner.StatusPass,
		},
		{
			name:    "driver with image",
			changes: gittest.AddedFiles("chirp/drivers/bft2.py", "tests/images/Baofeng_BF-T2.img"),
			want:    runner.StatusPass,
		},
		{
			name:    "driver without image",
			changes: gittest.AddedFiles("chirp/drivers/bft2.py", "chirp/share/model_alias_map.yaml"),
			want:    runner.StatusFail,
		},
		{
			name:    "image only",
			changes: gittest.AddedFiles("tests/images/Baofeng_BF-T2.img"),
			want:    runner.StatusPass,
		},
		{
			name:    "modified driver",
			changes: []git.FileChange{{Status: git.StatusModified, Path: "chirp/drivers/uv5r.py"}},
			want:    runner.StatusPass,
		},
		{
			name:    "sibling directory",
			changes: gittest.AddedFiles("chirp/drivers2/bft2.py"),
			want:    runner.StatusPass,
		},
		{
			name:    "non-source file under drivers",
			changes: gittest.AddedFiles("chirp/drivers/README"),
			want:    runner.StatusPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := (&DriverImages{}).Run(context.Background(), newDeps(t, &gittest.Fake{Changes: tt.changes}))
			assert.Equal(t, tt.want, res.Status)
			if tt.want == runner.StatusFail {
				assert.Equal(t, []runner.Failure{{
					Message: "All new drivers should include a test image",
					Details: []string{"chirp/drivers/bft2.py"},
				}}, res.Failures)
			}
		})
	}
}
