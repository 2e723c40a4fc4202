package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/batchlinehq/batchline/internal/apierror"
)

const reportDateFormat = "2006-01-02"

// GetUtilizationReport runs the reactor utilization report over a whole-day
// range. Both query parameters are calendar dates; the to day is included in
// full.
//
// Query parameters:
// - from: start date, YYYY-MM-DD (required)
// - to: end date, YYYY-MM-DD (required)
func (a Api) GetUtilizationReport(c *gin.Context) {
	from, err := time.Parse(reportDateFormat, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please format the from date as 'YYYY-MM-DD' (e.g., 2024-03-01)"})
		return
	}
	to, err := time.Parse(reportDateFormat, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please format the to date as 'YYYY-MM-DD' (e.g., 2024-03-31)"})
		return
	}

	resp, err := a.batchline.UtilizationReport(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
