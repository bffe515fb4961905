package serviceInfo

import (
	"net/http"

	"sexscaff/contexts"
	serviceInfo "sexscaff/models/constants/service-info"

	"github.com/labstack/echo"
)

// Spec: https://github.com/ga4gh-discovery/ga4gh-service-info
func GetServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":   serviceInfo.SERVICE_ID,
		"name": serviceInfo.SERVICE_NAME,
		"type": map[string]interface{}{
			"artifact": serviceInfo.SERVICE_ARTIFACT,
			"version":  c.(*contexts.SexscaffContext).Config.SemVer,
		},
		"description": serviceInfo.SERVICE_DESCRIPTION,
		"contactUrl":  serviceInfo.SERVICE_CONTACT,
		"version":     c.(*contexts.SexscaffContext).Config.SemVer,
	})
}
