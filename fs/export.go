package fs

import (
	"context"

	"github.com/fwojciec/gemdocs"
)

// Export saves every page in the index to store and commits it. The store
// is aborted if any page cannot be read or saved. Returns the number of
// pages written.
func Export(ctx context.Context, pages gemdocs.PageService, store gemdocs.PageStore) (n int, err error) {
	defer func() {
		if err != nil {
			_ = store.Abort()
		}
	}()

	for summary, err := range pages.ListPages(ctx) {
		if err != nil {
			return n, err
		}
		page, err := pages.FindPageByURL(ctx, summary.URL)
		if err != nil {
			return n, err
		}
		if err := store.Save(ctx, page); err != nil {
			return n, err
		}
		n++
	}

	if n == 0 {
		return 0, gemdocs.Errorf(gemdocs.ENOTFOUND, "corpus is empty; run ingest first")
	}
	return n, store.Commit()
}
