package walker

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// EstimateCount returns a fast, stat-free count of the files under root,
// used to seed progress percentages before a full scan. It follows no
// symlinks and ignores unreadable subtrees. The count is approximate: the
// tree may change while the real scan runs.
func EstimateCount(ctx context.Context, root string) (int64, error) {
	var count atomic.Int64

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if !d.IsDir() {
			count.Add(1)
		}
		return nil
	})
	if err != nil {
		return count.Load(), err
	}
	return count.Load(), ctx.Err()
}
