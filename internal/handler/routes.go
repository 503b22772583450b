package handler

import (
	"github.com/gin-gonic/gin"

	"chitkaraconnect/internal/auth"
	"chitkaraconnect/internal/gatepass"
	"chitkaraconnect/internal/httpmiddleware"
)

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	role := func(roles ...string) gin.HandlerFunc {
		return auth.RequireRole(h.opts.EnforceRoles, h.issuer, roles...)
	}
	staff := role(auth.RoleTeacher, auth.RoleAdmin)
	admin := role(auth.RoleAdmin)
	student := role(auth.RoleStudent)
	anyRole := role()

	r.GET("/questions", h.questions)

	api := r.Group("/api", auth.Identify(h.issuer))

	login := []gin.HandlerFunc{}
	if h.opts.LoginLimiter != nil {
		login = append(login, httpmiddleware.Limit(h.opts.LoginLimiter, "login"))
	}
	api.POST("/login", append(login, h.login)...)
	api.POST("/logout", h.logout)
	api.GET("/post-data-from-token/:token", h.decodePathToken)
	api.GET("/token/decode", h.decodeRequestToken)
	api.GET("/user-details", auth.CookieAuth(h.issuer), h.userDetails)

	api.GET("/student-details/:rollNo", anyRole, h.studentDetails)
	api.GET("/teacher-details/:teacherId", anyRole, h.teacherDetails)
	api.GET("/manage-students", staff, h.listStudents)
	api.GET("/student", staff, h.listStudents)
	api.GET("/students", staff, h.studentRoster)
	api.GET("/contact-teachers", anyRole, h.listTeachers)
	api.GET("/teachers", anyRole, h.listTeachers)

	api.GET("/performance/:rollNo", anyRole, h.performanceByRollNo)
	api.GET("/students-performance", staff, h.allPerformance)

	api.POST("/create-notice", staff, h.createNotice)
	api.GET("/get-events", h.noticesByTag("event"))
	api.GET("/get-mentor-notices", h.noticesByTag("mentornotice"))
	api.GET("/get-notices", h.noticesByTag("notice"))

	api.POST("/submit-gatepass", student, h.submitGatepass)
	for _, st := range []gatepass.Status{gatepass.Pending, gatepass.Approved, gatepass.Rejected} {
		api.GET("/gatepasses/"+string(st), staff, h.listGatepasses(st))
		api.GET("/gatepasses/"+string(st)+"/:rollNo", anyRole, h.listGatepasses(st))
	}
	api.PUT("/gatepasses/update-status", staff, h.updateGatepassStatus)

	api.POST("/submit-query", student, h.submitQuery)
	api.GET("/queries-without-solution", anyRole, h.unsolvedQueries)
	api.GET("/queries-with-solution", anyRole, h.solvedQueries)
	api.GET("/queries-by-rollno/:rollNo", anyRole, h.queriesByRollNo)
	api.GET("/queries", staff, h.allQueries)
	api.PUT("/queries/update-solution", staff, h.updateSolution)

	api.POST("/mark-attendance", staff, h.markAttendance)
	api.GET("/attendance/:rollNo", anyRole, h.attendanceByStudent)

	api.POST("/syllabus-add", staff, h.addSyllabus)
	api.GET("/syllabus", h.listSyllabus)

	api.POST("/support-add", h.addSupport)
	api.GET("/supports", admin, h.listSupport)

	api.GET("/students/count", admin, h.countStudents)
	api.GET("/teachers/count", admin, h.countTeachers)
	api.GET("/notices/count", admin, h.countNotices)
	api.GET("/queries/count", admin, h.countQueries)
	api.GET("/support/count", admin, h.countSupport)

	api.GET("/activity", admin, h.listActivity)
}
