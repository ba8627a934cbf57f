package tablets

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/zeptools/tablet-core/db/kvdb"
	"github.com/zeptools/tablet-core/orders"
	"github.com/zeptools/tablet-core/pdfs"
	"github.com/zeptools/tablet-core/points"
)

// PrintDataSource - the order-side data the engine renders from.
type PrintDataSource interface {
	PrintDataByItemIDs(ctx context.Context, itemIDs []int64) ([]*orders.ItemPrintData, error)
	PrintDataByOrderIDs(ctx context.Context, orderIDs []int64) ([]*orders.ItemPrintData, error)
}

// JobSource resolves a print job back to its member items.
type JobSource interface {
	MemberItemIDs(ctx context.Context, jobID int64) ([]int64, error)
}

// Engine - the full render pipeline: order data in, layout PDF out.
// T is the writer's template handle type.
type Engine[T any] struct {
	Data    PrintDataSource
	Jobs    JobSource
	Points  *points.Store
	Tracker JobTracker
	DataDir string

	NewWriter func(initial pdfs.PaperSize) pdfs.Writer[T]

	// job render results cache here, base64-encoded
	PreviewKV  kvdb.Client
	PreviewTTL time.Duration
}

func (e *Engine[T]) compositor() *Compositor[T] {
	return &Compositor[T]{DataDir: e.DataDir, Points: e.Points, Tracker: e.Tracker}
}

// RenderForItems renders the tablets of the given items into one PDF.
// trackJobs registers (or reuses) a print job per page and stamps its
// QR code. ErrNothingToRender when no page comes out.
func (e *Engine[T]) RenderForItems(ctx context.Context, itemIDs []int64, trackJobs bool) ([]byte, error) {
	data, err := e.Data.PrintDataByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	return e.render(ctx, data, trackJobs)
}

// RenderForOrders renders the tablets of every item of the given orders.
func (e *Engine[T]) RenderForOrders(ctx context.Context, orderIDs []int64, trackJobs bool) ([]byte, error) {
	data, err := e.Data.PrintDataByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	return e.render(ctx, data, trackJobs)
}

// RenderPerCategory renders one standalone PDF per category group,
// for split (per-template) downloads.
func (e *Engine[T]) RenderPerCategory(ctx context.Context, itemIDs []int64, trackJobs bool) (map[Category][]byte, error) {
	data, err := e.Data.PrintDataByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	groups := GroupForPrint(data)
	if len(groups) == 0 {
		return nil, ErrNothingToRender
	}
	docs := make(map[Category][]byte, len(groups))
	for _, group := range groups {
		w := e.NewWriter(group.Category.PaperSize())
		if err := e.compositor().Compose(ctx, w, []Group{group}, trackJobs); err != nil {
			return nil, err
		}
		if w.PageCount() == 0 {
			continue
		}
		doc, err := w.ProduceBytes()
		if err != nil {
			return nil, err
		}
		docs[group.Category] = doc
	}
	if len(docs) == 0 {
		return nil, ErrNothingToRender
	}
	return docs, nil
}

// RenderForJob re-renders a recorded print job from its member items.
// Results cache in the kv store so repeated scans of one job's code
// skip the render.
func (e *Engine[T]) RenderForJob(ctx context.Context, jobID int64) ([]byte, error) {
	cacheKey := jobCacheKey(jobID)
	if e.PreviewKV != nil {
		if encoded, found, err := e.PreviewKV.Get(ctx, cacheKey); err != nil {
			log.Printf("[WARN] job %d preview cache read failed: %v\n", jobID, err)
		} else if found {
			doc, err := base64.StdEncoding.DecodeString(encoded)
			if err == nil {
				return doc, nil
			}
			log.Printf("[WARN] job %d preview cache entry corrupt; re-rendering\n", jobID)
		}
	}

	itemIDs, err := e.Jobs.MemberItemIDs(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return nil, ErrNothingToRender
	}
	doc, err := e.RenderForItems(ctx, itemIDs, false)
	if err != nil {
		return nil, err
	}

	if e.PreviewKV != nil {
		encoded := base64.StdEncoding.EncodeToString(doc)
		if err := e.PreviewKV.Set(ctx, cacheKey, encoded, e.PreviewTTL); err != nil {
			log.Printf("[WARN] job %d preview cache write failed: %v\n", jobID, err)
		}
	}
	return doc, nil
}

func (e *Engine[T]) render(ctx context.Context, data []*orders.ItemPrintData, trackJobs bool) ([]byte, error) {
	groups := GroupForPrint(data)
	if len(groups) == 0 {
		return nil, ErrNothingToRender
	}
	w := e.NewWriter(groups[0].Category.PaperSize())
	if err := e.compositor().Compose(ctx, w, groups, trackJobs); err != nil {
		return nil, err
	}
	if w.PageCount() == 0 {
		return nil, ErrNothingToRender
	}
	return w.ProduceBytes()
}

func jobCacheKey(jobID int64) string {
	return fmt.Sprintf("printjob:preview:%d", jobID)
}
