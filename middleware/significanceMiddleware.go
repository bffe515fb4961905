package middleware

import (
	"net/http"

	"github.com/labstack/echo"

	"sexscaff/models/constants/significance"
)

/*
	Echo middleware to ensure that, if a `significance` HTTP query
	parameter was provided, it names one of the known labels
*/
func ValidateOptionalSignificanceAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for significance query parameter
		sigQP := c.QueryParam("significance")
		if len(sigQP) == 0 {
			// optional : continue
			return next(c)
		}

		// verify:
		if !significance.IsKnown(sigQP) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid 'significance' query parameter! Use 'significant', 'not significant' or 'untested'")
		}

		return next(c)
	}
}
