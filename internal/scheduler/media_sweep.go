package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/recipegram-app/recipegram/internal/database"
	"github.com/recipegram-app/recipegram/internal/entities"
)

// MediaSweeper periodically deletes files in the media directory that no
// database row references anymore. Orphans accumulate from the
// degrade-on-failure image contract (a row written without its image) and
// from recipe/user deletion, which cascades rows but not files.
type MediaSweeper struct {
	db       *database.Database
	mediaDir string
	minAge   time.Duration // files younger than this are never touched

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMediaSweeper creates a sweeper over the given media directory.
func NewMediaSweeper(db *database.Database, mediaDir string, minAge time.Duration) *MediaSweeper {
	return &MediaSweeper{
		db:       db,
		mediaDir: mediaDir,
		minAge:   minAge,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the sweep with the given cron expression.
func (s *MediaSweeper) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid media sweep schedule '%s': %w", schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Media sweeper: started with schedule '%s'", schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *MediaSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Media sweeper: stopped")
}

// RunNow triggers an immediate sweep.
func (s *MediaSweeper) RunNow() {
	go s.runSweep()
}

// IsRunning returns whether the scheduler is active.
func (s *MediaSweeper) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur.
func (s *MediaSweeper) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSweep deletes unreferenced media files older than minAge.
func (s *MediaSweeper) runSweep() {
	startTime := time.Now()

	referenced, err := s.referencedPaths()
	if err != nil {
		log.Printf("Media sweep: failed to collect referenced paths: %v", err)
		return
	}

	dirEntries, err := os.ReadDir(s.mediaDir)
	if err != nil {
		log.Printf("Media sweep: failed to read media dir %s: %v", s.mediaDir, err)
		return
	}

	var removed, kept int
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		// Temp files belong to an in-flight copy
		if strings.HasPrefix(entry.Name(), "media_tmp_") {
			continue
		}

		path := filepath.Join(s.mediaDir, entry.Name())
		if _, ok := referenced[filepath.Clean(path)]; ok {
			kept++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		// A young orphan may be part of a publish still in progress
		if time.Since(info.ModTime()) < s.minAge {
			kept++
			continue
		}

		if err := os.Remove(path); err != nil {
			log.Printf("Media sweep: failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}

	log.Printf("Media sweep: removed %d orphaned files, kept %d, took %v",
		removed, kept, time.Since(startTime).Round(time.Millisecond))
}

// referencedPaths collects every media path any row still points at.
func (s *MediaSweeper) referencedPaths() (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	collect := func(model any, column string) error {
		var paths []string
		err := s.db.DB.Model(model).
			Where(column+" <> ''").
			Pluck(column, &paths).Error
		if err != nil {
			return err
		}
		for _, p := range paths {
			referenced[filepath.Clean(p)] = struct{}{}
		}
		return nil
	}

	if err := collect(&entities.User{}, "profile_image"); err != nil {
		return nil, err
	}
	if err := collect(&entities.Recipe{}, "image_path"); err != nil {
		return nil, err
	}
	if err := collect(&entities.StepPhoto{}, "image_path"); err != nil {
		return nil, err
	}

	return referenced, nil
}
