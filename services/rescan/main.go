package rescanService

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"sexscaff/models"
	pipelineService "sexscaff/services/pipeline"
)

type (
	// RescanService periodically re-runs the pipeline so the served
	// results track inputs refreshed by the upstream genotype tool.
	RescanService struct {
		Initialized bool
		Config      *models.Config
		Store       *pipelineService.ResultStore
	}
)

func NewRescanService(cfg *models.Config, store *pipelineService.ResultStore) *RescanService {
	rs := &RescanService{
		Initialized: false,
		Config:      cfg,
		Store:       store,
	}

	rs.Init()

	return rs
}

func (rs *RescanService) Init() {
	if !rs.Initialized {
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(rs.Config.Api.RescanIntervalMinutes).Minutes().Do(func() {
				fmt.Printf("[%s] - Running scheduled input rescan..\n", time.Now())

				rr, runErr := pipelineService.Run(rs.Config)
				if runErr != nil {
					// keep serving the previous run; a half-written
					// input table must not evict good results
					fmt.Printf("[%s] - Rescan failed, keeping previous results : %v\n", time.Now(), runErr)
					return
				}

				rs.Store.Set(rr)
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		rs.Initialized = true
		fmt.Println("Rescan Service Initialized ..")
	}
}
