package contexts

import (
	"sexscaff/models"
	pipelineService "sexscaff/services/pipeline"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the latest pipeline results and other variables
	SexscaffContext struct {
		echo.Context
		Config      *models.Config
		ResultStore *pipelineService.ResultStore
	}
)
