package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/gatepass"
	"chitkaraconnect/internal/numeric"
	"chitkaraconnect/internal/query"
)

func (h *Handler) submitGatepass(c *gin.Context) {
	var req struct {
		Name    string      `json:"name"`
		RollNo  numeric.Int `json:"rollNo"`
		Email   string      `json:"email"`
		Contact text        `json:"contact"`
		Date    string      `json:"date"`
		Time    string      `json:"time"`
		Reason  string      `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.RollNo.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "rollNo, date and reason are required"})
		return
	}
	id, err := h.svc.Gatepasses.Submit(c.Request.Context(), gatepass.Request{
		Name:    req.Name,
		RollNo:  req.RollNo.Value,
		Email:   req.Email,
		Contact: string(req.Contact),
		Date:    req.Date,
		Time:    req.Time,
		Reason:  req.Reason,
	})
	if err != nil {
		h.fail(c, err, "Error submitting gate pass")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Gate pass submitted successfully", "gatepassId": id})
}

func (h *Handler) listGatepasses(status gatepass.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rollNo *int64
		if raw := c.Param("rollNo"); raw != "" {
			v, ok := numeric.ParseInt(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"message": "A numeric RollNo is required"})
				return
			}
			rollNo = &v
		}
		out, err := h.svc.Gatepasses.List(c.Request.Context(), status, rollNo)
		if err != nil {
			h.fail(c, err, fmt.Sprintf("Error fetching %s gatepasses", status))
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func (h *Handler) updateGatepassStatus(c *gin.Context) {
	var req struct {
		GatepassID     string `json:"gatepassId"`
		ApprovedStatus string `json:"approvedStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "gatepassId and approvedStatus are required"})
		return
	}
	gp, err := h.svc.Gatepasses.Decide(c.Request.Context(), req.GatepassID, req.ApprovedStatus, actor(c))
	if err != nil {
		h.fail(c, err, "Error updating gate pass status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gate pass status updated successfully", "gatepass": gp})
}

func (h *Handler) submitQuery(c *gin.Context) {
	var req struct {
		Name   string          `json:"name"`
		RollNo numeric.Int     `json:"rollNo"`
		Email  string          `json:"email"`
		Topic  string          `json:"topic"`
		Tags   json.RawMessage `json:"tags"`
		Query  string          `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	if req.Name == "" || req.Email == "" || !req.RollNo.Valid || req.Topic == "" || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	tags, ok := parseTags(req.Tags)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tags must be an array"})
		return
	}

	id, err := h.svc.Queries.Submit(c.Request.Context(), query.Request{
		Name:   req.Name,
		RollNo: req.RollNo.Value,
		Email:  req.Email,
		Topic:  req.Topic,
		Tags:   tags,
		Query:  req.Query,
	})
	if err != nil {
		h.fail(c, err, "Failed to submit query. Please try again later.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Your query has been submitted successfully! We will respond shortly.",
		"queryId": id,
	})
}

// parseTags accepts a missing value or a JSON array. Non-string items are
// kept in their printed form.
func parseTags(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
			continue
		}
		tags = append(tags, fmt.Sprint(item))
	}
	return tags, true
}

func (h *Handler) unsolvedQueries(c *gin.Context) {
	h.wrapQueries(c, h.svc.Queries.Unsolved)
}

func (h *Handler) solvedQueries(c *gin.Context) {
	h.wrapQueries(c, h.svc.Queries.Solved)
}

func (h *Handler) queriesByRollNo(c *gin.Context) {
	rollNo, ok := numeric.ParseInt(c.Param("rollNo"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Roll number is required."})
		return
	}
	out, err := h.svc.Queries.ByRollNo(c.Request.Context(), rollNo)
	if err != nil {
		h.fail(c, err, "Failed to fetch queries. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": out})
}

func (h *Handler) wrapQueries(c *gin.Context, fetch func(context.Context) ([]query.Query, error)) {
	out, err := fetch(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch queries. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": out})
}

func (h *Handler) allQueries(c *gin.Context) {
	out, err := h.svc.Queries.All(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) updateSolution(c *gin.Context) {
	var req struct {
		QueryID  string `json:"queryId"`
		Solution any    `json:"solution"`
	}
	err := c.ShouldBindJSON(&req)
	solution, isString := req.Solution.(string)
	if err != nil || req.QueryID == "" || !isString {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input. queryId and solution are required."})
		return
	}
	if err := h.svc.Queries.UpdateSolution(c.Request.Context(), req.QueryID, solution, actor(c)); err != nil {
		h.fail(c, err, "Failed to update solution. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Solution updated successfully."})
}
