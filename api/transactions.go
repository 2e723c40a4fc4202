package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/batchlinehq/batchline/api/model"
	"github.com/batchlinehq/batchline/internal/apierror"
	"github.com/batchlinehq/batchline/model"
)

// CreateTransaction handles the recording of a new production run.
// It binds the incoming JSON request to a CreateTransaction object, validates
// it, and then records the run. If any errors occur during validation or
// recording, it responds with an appropriate error message.
//
// Parameters:
// - c: The Gin context containing the request and response.
//
// Responses:
// - 400 Bad Request: If there's an error in binding JSON or validating the run.
// - 201 Created: If the run is successfully recorded.
func (a Api) CreateTransaction(c *gin.Context) {
	var newTransaction model2.CreateTransaction
	if err := c.ShouldBindJSON(&newTransaction); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newTransaction.ValidateCreateTransaction(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.batchline.CreateTransaction(c.Request.Context(), newTransaction.ToTransaction())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTransaction retrieves a single production run by its ID.
func (a Api) GetTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /transactions/:id"})
		return
	}

	resp, err := a.batchline.GetTransaction(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllTransactions retrieves production runs with limit/offset pagination.
func (a Api) GetAllTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := a.batchline.ListTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TransitionTransaction moves a production run to a new lifecycle status.
//
// Responses:
// - 400 Bad Request: If the body is malformed or the status is not a legal value.
// - 404 Not Found: If the run does not exist.
// - 409 Conflict: If the transition is illegal from the current status, or a
//   competing transition committed first.
// - 200 OK: If the transition committed.
func (a Api) TransitionTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /transactions/:id/transitions"})
		return
	}

	var transition model2.TransitionTransaction
	if err := c.ShouldBindJSON(&transition); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := transition.ValidateTransitionTransaction(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.batchline.TransitionTransaction(c.Request.Context(), id, model.Status(transition.Status), transition.Note)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecordDelay accumulates a delay interval onto a production run.
func (a Api) RecordDelay(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /transactions/:id/delays"})
		return
	}

	var delay model2.RecordDelay
	if err := c.ShouldBindJSON(&delay); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := delay.ValidateRecordDelay(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.batchline.RecordDelay(c.Request.Context(), id, delay.Duration, delay.DelayReasonID, delay.Note)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
