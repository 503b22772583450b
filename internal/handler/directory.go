package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/account"
	"chitkaraconnect/internal/numeric"
)

func (h *Handler) studentDetails(c *gin.Context) {
	h.profile(c, account.Student, c.Param("rollNo"), "RollNo")
}

func (h *Handler) teacherDetails(c *gin.Context) {
	h.profile(c, account.Teacher, c.Param("teacherId"), "TeacherId")
}

func (h *Handler) profile(c *gin.Context, role account.Role, raw, label string) {
	id, ok := numeric.ParseInt(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A numeric " + label + " is required"})
		return
	}
	doc, err := h.svc.Accounts.Profile(c.Request.Context(), role, id)
	if err != nil {
		h.fail(c, err, "Error fetching "+string(role)+" data")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) listStudents(c *gin.Context) {
	h.list(c, account.Student)
}

func (h *Handler) listTeachers(c *gin.Context) {
	h.list(c, account.Teacher)
}

func (h *Handler) list(c *gin.Context, role account.Role, fields ...string) {
	docs, err := h.svc.Accounts.List(c.Request.Context(), role, fields...)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, docs)
}

// studentRoster is the short list used to build attendance sheets.
func (h *Handler) studentRoster(c *gin.Context) {
	h.list(c, account.Student, "name", "RollNo", "group")
}

func (h *Handler) countStudents(c *gin.Context) {
	h.count(c, func() (int64, error) { return h.svc.Accounts.Count(c.Request.Context(), account.Student) })
}

func (h *Handler) countTeachers(c *gin.Context) {
	h.count(c, func() (int64, error) { return h.svc.Accounts.Count(c.Request.Context(), account.Teacher) })
}

func (h *Handler) countNotices(c *gin.Context) {
	h.count(c, func() (int64, error) { return h.svc.Notices.Count(c.Request.Context()) })
}

func (h *Handler) countQueries(c *gin.Context) {
	h.count(c, func() (int64, error) { return h.svc.Queries.Count(c.Request.Context()) })
}

func (h *Handler) countSupport(c *gin.Context) {
	h.count(c, func() (int64, error) { return h.svc.Support.Count(c.Request.Context()) })
}

func (h *Handler) count(c *gin.Context, fn func() (int64, error)) {
	n, err := fn()
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) performanceByRollNo(c *gin.Context) {
	rollNo, ok := numeric.ParseInt(c.Param("rollNo"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A numeric RollNo is required"})
		return
	}
	docs, err := h.svc.Performance.ByRollNo(c.Request.Context(), rollNo)
	if err != nil {
		h.fail(c, err, "Error fetching performance data")
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) allPerformance(c *gin.Context) {
	docs, err := h.svc.Performance.All(c.Request.Context())
	if err != nil {
		h.failKey(c, "error", err, "Failed to fetch students")
		return
	}
	c.JSON(http.StatusOK, docs)
}
