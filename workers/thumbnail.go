package workers

import (
	"database/sql"
	"log"
	"os"
	"sync"

	"github.com/constructpro/constructpro-backend/config"
	"github.com/constructpro/constructpro-backend/database"
	"github.com/constructpro/constructpro-backend/utils"
)

type ThumbnailJob struct {
	ImagePath   string
	ModTimeUnix int64
}

// ThumbnailGenerator generates photo thumbnails in the background and
// records them in the thumbnail index, keyed by the photo's path.
type ThumbnailGenerator struct {
	JobQueue chan ThumbnailJob
	Config   config.Config
	DB       *sql.DB
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewThumbnailGenerator(cfg config.Config, db *sql.DB, queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &ThumbnailGenerator{
		JobQueue: make(chan ThumbnailJob, queueSize),
		Config:   cfg,
		DB:       db,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	log.Printf("thumbnail worker %d started", id)
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: job queue closed", id)
				return
			}
			log.Printf("worker %d processing job for: %s", id, job.ImagePath)
			tg.processJob(job)
			tg.Mutex.Lock()
			delete(tg.Pending, job.ImagePath)
			tg.Mutex.Unlock()

		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) processJob(job ThumbnailJob) {
	if _, err := os.Stat(job.ImagePath); os.IsNotExist(err) {
		log.Printf("original file %s not found, skipping thumbnail generation", job.ImagePath)
		return
	} else if err != nil {
		log.Printf("error stating original file %s before thumbnail generation: %v", job.ImagePath, err)
	}

	thumbSavePath, err := utils.GenerateThumbnail(
		job.ImagePath,
		tg.Config.ThumbnailsPath,
		tg.Config.ThumbnailMaxWidth,
		tg.Config.ThumbnailMaxHeight,
	)
	if err != nil {
		log.Printf("ERROR generating thumbnail for %s: %v", job.ImagePath, err)
		return
	}

	err = database.SetThumbnailInfo(tg.DB, job.ImagePath, thumbSavePath, job.ModTimeUnix)
	if err != nil {
		log.Printf("ERROR updating thumbnail DB record for %s after generation: %v", job.ImagePath, err)
		return
	}

	log.Printf("successfully generated thumbnail and updated DB for: %s", job.ImagePath)
}

// QueueJob enqueues generation for a photo unless one is already pending.
func (tg *ThumbnailGenerator) QueueJob(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	if tg.Pending[job.ImagePath] {
		tg.Mutex.Unlock()
		log.Printf("thumbnail generation for %s already pending, skipping queue", job.ImagePath)
		return false
	}

	tg.Pending[job.ImagePath] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		log.Printf("queued thumbnail generation for: %s", job.ImagePath)
		return true
	default:
		log.Printf("WARNING: thumbnail job queue full, failed to queue job for: %s", job.ImagePath)
		tg.Mutex.Lock()
		delete(tg.Pending, job.ImagePath)
		tg.Mutex.Unlock()
		return false
	}
}

func (tg *ThumbnailGenerator) Stop() {
	log.Println("stopping thumbnail generator...")
	close(tg.StopChan)
	tg.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}
