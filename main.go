package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"log"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"sexscaff/contexts"
	sam "sexscaff/middleware"
	"sexscaff/models"
	serviceInfo "sexscaff/models/constants/service-info"
	"sexscaff/mvc"
	serviceInfoMvc "sexscaff/mvc/service-info"
	pipelineService "sexscaff/services/pipeline"
	rescanService "sexscaff/services/rescan"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// overlay the organism/dataset threshold profile, if any
	if cfg.ThresholdProfilePath != "" {
		if profileErr := cfg.ApplyThresholdProfile(cfg.ThresholdProfilePath); profileErr != nil {
			log.Fatal(profileErr)
		}
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tSex Metadata Path : %s \n"+
		"\tHeterozygosity Table Path : %s \n"+
		"\tDepth Table Path : %s \n"+
		"\tOutput Directory : %s \n\n"+

		"\tHeterogametic Sex : %s\n"+
		"\tHomogametic Sex : %s\n"+
		"\tMin Locus Count : %d\n"+
		"\tP-Value Ceiling : %g\n"+
		"\tHeterozygosity Ceiling : %g\n"+
		"\tDepth Outlier Ceiling : %g\n"+
		"\tLow Depth Ceiling : %g\n"+
		"\tMin Depth Ratio : %g\n\n"+

		"\tServe Results : %t\n"+
		"\tRescan Interval (minutes) : %d\n",

		cfg.Debug,
		cfg.Input.SexMetadataPath,
		cfg.Input.HeterozygosityPath,
		cfg.Input.DepthPath,
		cfg.Output.Dir,
		cfg.Sexes.Heterogametic,
		cfg.Sexes.Homogametic,
		cfg.Thresholds.MinLocusCount,
		cfg.Thresholds.PValueCeiling,
		cfg.Thresholds.HetCeiling,
		cfg.Thresholds.DepthOutlierCeiling,
		cfg.Thresholds.LowDepthCeiling,
		cfg.Thresholds.MinDepthRatio,
		cfg.Api.Serve,
		cfg.Api.RescanIntervalMinutes)
	// --

	if cfg.Input.WaitForInputs {
		if waitErr := pipelineService.WaitForInputs(&cfg); waitErr != nil {
			log.Fatal(waitErr)
		}
	}

	rr, runErr := pipelineService.Run(&cfg)
	if runErr != nil {
		log.Fatal(runErr)
	}

	if !cfg.Api.Serve {
		// batch mode : the four output tables are on disk, nothing left to do
		return
	}

	// Instantiate Server
	e := echo.New()

	// Result Store Singleton
	store := &pipelineService.ResultStore{}
	store.Set(rr)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	// -- Override handlers with "custom Sexscaff" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.SexscaffContext{
				Context:     c,
				Config:      &cfg,
				ResultStore: store,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Results
	e.GET("/results/overview", mvc.GetResultsOverview)
	e.GET("/results/heterozygosity", mvc.GetHetSummary,
		// middleware
		sam.ValidateOptionalSignificanceAttribute)
	e.GET("/results/depth", mvc.GetDepthSummary,
		// middleware
		sam.ValidateOptionalSignificanceAttribute)
	e.GET("/results/candidates/xz", mvc.GetCandidatesXZ)
	e.GET("/results/candidates/wy", mvc.GetCandidatesWY)

	// -- Classification
	e.POST("/classify", mvc.Reclassify)

	// Periodic input rescan
	if cfg.Api.RescanIntervalMinutes > 0 {
		rescanService.NewRescanService(&cfg, store)
	}

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
