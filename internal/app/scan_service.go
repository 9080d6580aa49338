package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agriguard/internal/analysis"
	"agriguard/internal/model"
	"agriguard/internal/recommend"
	"agriguard/internal/vision"
)

var (
	ErrImageEmpty  = errors.New("image payload is empty")
	ErrScanEnqueue = errors.New("scan enqueue failed")
)

// defaultHistoryLimit is the page size the dashboard fetches and the only
// page the cache keeps.
const defaultHistoryLimit = 10

// Classifier produces a disease label with a [0,1] confidence for an image.
type Classifier interface {
	Predict(image []byte) (vision.Prediction, error)
}

// AsyncScanPublisher hands a finished scan to the persistence queue.
type AsyncScanPublisher interface {
	Publish(ctx context.Context, scan model.Scan) error
}

// HistoryCache caches a user's first history page.
type HistoryCache interface {
	GetHistory(ctx context.Context, userID uint) ([]model.Scan, bool, error)
	SetHistory(ctx context.Context, userID uint, scans []model.Scan) error
	DeleteHistory(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

// ScanStore reads persisted scans.
type ScanStore interface {
	ListByUserID(userID uint, skip, limit int) ([]model.Scan, error)
}

// ScanService classifies leaf images and serves scan history.
type ScanService struct {
	scanRepo     ScanStore
	publisher    AsyncScanPublisher
	historyCache HistoryCache
	classifier   Classifier
}

func NewScanService(
	scanRepo ScanStore,
	publisher AsyncScanPublisher,
	historyCache HistoryCache,
	classifier Classifier,
) *ScanService {
	return &ScanService{
		scanRepo:     scanRepo,
		publisher:    publisher,
		historyCache: historyCache,
		classifier:   classifier,
	}
}

// Analyze classifies the image, fingerprints it, attaches the treatment
// recommendation for the detected label, and enqueues the scan for
// persistence. The returned scan is what the caller sees immediately; the
// database row is written by the persist worker.
func (s *ScanService) Analyze(ctx context.Context, userID uint, image []byte) (model.Scan, error) {
	if len(image) == 0 {
		return model.Scan{}, ErrImageEmpty
	}

	pred, err := s.classifier.Predict(image)
	if err != nil {
		return model.Scan{}, fmt.Errorf("classify image failed: %w", err)
	}

	sum := sha256.Sum256(image)
	scan := model.Scan{
		UserID:         userID,
		ImageHash:      hex.EncodeToString(sum[:]),
		DiseaseName:    pred.Label,
		Confidence:     pred.Confidence,
		Recommendation: recommendationFor(pred.Label),
		Timestamp:      time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, scan); err != nil {
		return model.Scan{}, fmt.Errorf("%w: %v", ErrScanEnqueue, err)
	}

	// The cached page is stale now; the dirty marker covers the window
	// until the worker has written the row.
	if err := s.historyCache.DeleteHistory(ctx, userID); err != nil {
		log.Printf("invalidate history cache failed: %v", err)
	}
	if err := s.historyCache.MarkDirty(ctx, userID); err != nil {
		log.Printf("mark history dirty failed: %v", err)
	}

	return scan, nil
}

// History returns the user's scans newest first. The first default-sized
// page is served from cache when present and not dirty.
func (s *ScanService) History(ctx context.Context, userID uint, skip, limit int) ([]model.Scan, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	cacheable := skip == 0 && limit == defaultHistoryLimit

	if cacheable {
		dirty, err := s.historyCache.IsDirty(ctx, userID)
		if err != nil {
			log.Printf("check history dirty failed: %v", err)
		}
		if err == nil && !dirty {
			if scans, hit, err := s.historyCache.GetHistory(ctx, userID); err == nil && hit {
				return scans, nil
			} else if err != nil {
				log.Printf("read history cache failed: %v", err)
			}
		} else if dirty {
			cacheable = false
		}
	}

	scans, err := s.scanRepo.ListByUserID(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.historyCache.SetHistory(ctx, userID, scans); err != nil {
			log.Printf("write history cache failed: %v", err)
		}
	}
	return scans, nil
}

// recommendationFor builds the stored advice text for a label. Healthy
// labels get the maintenance list; everything else goes through the table,
// keyed on the human-readable form since dataset labels carry underscores.
func recommendationFor(label string) string {
	if strings.Contains(strings.ToLower(label), "healthy") {
		return strings.Join(recommend.HealthyAdvice(), "; ")
	}
	display := analysis.FormatDiseaseName(label)
	return strings.Join(recommend.Resolve(display).Recommendations, "; ")
}
