package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/apperr"
	"chitkaraconnect/internal/attendance"
	"chitkaraconnect/internal/support"
)

func (h *Handler) createNotice(c *gin.Context) {
	var req struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notice type"})
		return
	}
	id, err := h.svc.Notices.Create(c.Request.Context(), req.Type, req.Data)
	if err != nil {
		h.fail(c, err, "Error creating notice")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Notice created successfully", "noticeId": id})
}

func (h *Handler) noticesByTag(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h.svc.Notices.ByTag(c.Request.Context(), tag)
		if err != nil {
			h.fail(c, err, "Error fetching notices")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

const attendanceInputError = `Invalid input format. "date" and "attendanceRecords" are required.`

func (h *Handler) markAttendance(c *gin.Context) {
	var req struct {
		Date    string `json:"date"`
		Records []struct {
			StudentID text   `json:"studentId"`
			Status    string `json:"status"`
		} `json:"attendanceRecords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": attendanceInputError})
		return
	}
	entries := make([]attendance.Entry, 0, len(req.Records))
	for _, r := range req.Records {
		entries = append(entries, attendance.Entry{StudentID: string(r.StudentID), Status: r.Status})
	}

	res, err := h.svc.Attendance.Mark(c.Request.Context(), req.Date, entries, actor(c))
	if err != nil {
		h.failKey(c, "error", err, "Failed to mark attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked successfully", "result": res})
}

func (h *Handler) attendanceByStudent(c *gin.Context) {
	out, err := h.svc.Attendance.ByStudent(c.Request.Context(), c.Param("rollNo"))
	if err != nil {
		key := "error"
		if apperr.KindOf(err) == apperr.KindNotFound {
			key = "message"
		}
		h.failKey(c, key, err, "Failed to fetch attendance records")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) addSyllabus(c *gin.Context) {
	var req struct {
		CourseName string `json:"courseName"`
		Topics     any    `json:"topics"`
		Semester   any    `json:"semester"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	id, err := h.svc.Syllabus.Add(c.Request.Context(), req.CourseName, req.Topics, req.Semester)
	if err != nil {
		h.fail(c, err, "Error adding syllabus")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Syllabus added successfully!", "syllabusId": id})
}

func (h *Handler) listSyllabus(c *gin.Context) {
	out, err := h.svc.Syllabus.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching syllabus")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) addSupport(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		QueryType string `json:"queryType"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	id, err := h.svc.Support.Add(c.Request.Context(), support.Ticket{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		QueryType: req.QueryType,
		Message:   req.Message,
	})
	if err != nil {
		h.fail(c, err, "Failed to add support request. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Thank you for your feedback! We'll get back to you shortly.",
		"supportId": id,
	})
}

func (h *Handler) listSupport(c *gin.Context) {
	out, err := h.svc.Support.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listActivity(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = min(parsed, 500)
		}
	}
	out, err := h.svc.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) questions(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.FAQ)
}
