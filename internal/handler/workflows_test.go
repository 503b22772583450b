package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitkaraconnect/internal/activity"
)

func (s *server) submitGatepass(status string) string {
	s.t.Helper()
	w := s.do(call{method: http.MethodPost, path: "/api/submit-gatepass", body: map[string]any{
		"name": "Asha", "rollNo": "2021001", "email": "asha@example.edu", "contact": 9876543210,
		"date": "2024-02-01", "time": "10:00", "reason": "home visit", "approvedStatus": status,
	}})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[map[string]string](s.t, w)
	assert.Equal(s.t, "Gate pass submitted successfully", body["message"])
	return body["gatepassId"]
}

func (s *server) decide(id, status string) int {
	s.t.Helper()
	w := s.do(call{method: http.MethodPut, path: "/api/gatepasses/update-status", body: map[string]any{"gatepassId": id, "approvedStatus": status}})
	return w.Code
}

func TestGatepassLifecycle(t *testing.T) {
	s := newServer(t, testConfig{})
	id := s.submitGatepass("approved")

	w := s.do(call{method: http.MethodGet, path: "/api/gatepasses/pending"})
	require.Equal(t, http.StatusOK, w.Code)
	pending := decode[[]map[string]any](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0]["approvedStatus"])
	assert.Equal(t, "9876543210", pending[0]["contact"])

	w = s.do(call{method: http.MethodGet, path: "/api/gatepasses/approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No approved gatepasses found", decode[map[string]string](t, w)["message"])

	w = s.do(call{method: http.MethodPut, path: "/api/gatepasses/update-status", body: map[string]any{"gatepassId": id, "approvedStatus": "approved"}})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "Gate pass status updated successfully", updated["message"])
	assert.Equal(t, "approved", updated["gatepass"].(map[string]any)["approvedStatus"])

	assert.Equal(t, http.StatusOK, s.decide(id, "rejected"))

	w = s.do(call{method: http.MethodGet, path: "/api/gatepasses/rejected/2021001"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(call{method: http.MethodGet, path: "/api/gatepasses/approved/2021001"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No approved gatepasses found for RollNo: 2021001", decode[map[string]string](t, w)["message"])
}

func TestGatepassUpdateErrors(t *testing.T) {
	s := newServer(t, testConfig{})
	id := s.submitGatepass("")

	assert.Equal(t, http.StatusBadRequest, s.decide("", "approved"))
	assert.Equal(t, http.StatusBadRequest, s.decide(id, ""))
	assert.Equal(t, http.StatusBadRequest, s.decide(id, "pending"))
	assert.Equal(t, http.StatusBadRequest, s.decide("xyz", "approved"))
	assert.Equal(t, http.StatusNotFound, s.decide("65a0000000000000000000aa", "approved"))
}

func TestGatepassStrictTransitions(t *testing.T) {
	s := newServer(t, testConfig{strict: true})
	id := s.submitGatepass("")

	assert.Equal(t, http.StatusOK, s.decide(id, "approved"))
	assert.Equal(t, http.StatusConflict, s.decide(id, "rejected"))

	w := s.do(call{method: http.MethodGet, path: "/api/gatepasses/approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestGatepassDecisionIsAudited(t *testing.T) {
	s := newServer(t, testConfig{})
	teacher := s.login(501, 1111)
	id := s.submitGatepass("")

	w := s.do(call{method: http.MethodPut, path: "/api/gatepasses/update-status", token: teacher,
		body: map[string]any{"gatepassId": id, "approvedStatus": "approved"}})
	require.Equal(t, http.StatusOK, w.Code)

	var events []activity.Event
	require.Eventually(t, func() bool {
		events, _ = s.activity.Recent(context.Background(), 10)
		return len(events) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, activity.GatepassDecided, events[0].Kind)
	assert.Equal(t, id, events[0].SubjectID)
	assert.Equal(t, "teacher", events[0].ActorRole)
	assert.Equal(t, int64(501), events[0].ActorID)

	w = s.do(call{method: http.MethodGet, path: "/api/activity"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestQueryLifecycle(t *testing.T) {
	s := newServer(t, testConfig{})
	w := s.do(call{method: http.MethodPost, path: "/api/submit-query", body: map[string]any{
		"name": "Asha", "rollNo": 2021001, "email": "asha@example.edu", "topic": "DBMS",
		"query": "What is BCNF?", "solution": "already solved", "likes": 40,
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]string](t, w)["queryId"]

	w = s.do(call{method: http.MethodGet, path: "/api/queries-without-solution"})
	require.Equal(t, http.StatusOK, w.Code)
	unsolved := decode[map[string][]map[string]any](t, w)["queries"]
	require.Len(t, unsolved, 1)
	assert.Equal(t, "null", unsolved[0]["solution"])
	assert.Equal(t, float64(0), unsolved[0]["likes"])
	assert.Equal(t, []any{}, unsolved[0]["tags"])
	assert.Equal(t, "What is BCNF?", unsolved[0]["description"])

	w = s.do(call{method: http.MethodPut, path: "/api/queries/update-solution", body: map[string]any{"queryId": id, "solution": "Every determinant is a key."}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Solution updated successfully.", decode[map[string]string](t, w)["message"])

	w = s.do(call{method: http.MethodGet, path: "/api/queries-with-solution"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]map[string]any](t, w)["queries"], 1)

	w = s.do(call{method: http.MethodGet, path: "/api/queries-without-solution"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No queries without a solution found.", decode[map[string]string](t, w)["message"])

	w = s.do(call{method: http.MethodGet, path: "/api/queries-by-rollno/2021001"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]map[string]any](t, w)["queries"], 1)

	w = s.do(call{method: http.MethodGet, path: "/api/queries"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestQueryValidation(t *testing.T) {
	s := newServer(t, testConfig{})
	base := map[string]any{"name": "Asha", "rollNo": 1, "email": "a@example.edu", "topic": "OS", "query": "?"}

	withTags := map[string]any{"tags": "os,linux"}
	for k, v := range base {
		withTags[k] = v
	}
	w := s.do(call{method: http.MethodPost, path: "/api/submit-query", body: withTags})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tags must be an array", decode[map[string]string](t, w)["message"])

	w = s.do(call{method: http.MethodPost, path: "/api/submit-query", body: map[string]any{"name": "Asha"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decode[map[string]string](t, w)["message"])

	for _, body := range []map[string]any{
		{"solution": "x"},
		{"queryId": "65a0000000000000000000aa", "solution": 5},
		{"queryId": "65a0000000000000000000aa"},
	} {
		w = s.do(call{method: http.MethodPut, path: "/api/queries/update-solution", body: body})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid input. queryId and solution are required.", decode[map[string]string](t, w)["message"])
	}

	w = s.do(call{method: http.MethodPut, path: "/api/queries/update-solution", body: map[string]any{"queryId": "65a0000000000000000000aa", "solution": "x"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Query not found.", decode[map[string]string](t, w)["message"])
}

func TestAttendanceExample(t *testing.T) {
	s := newServer(t, testConfig{})
	w := s.do(call{method: http.MethodPost, path: "/api/mark-attendance", body: map[string]any{
		"date":              "2024-01-10",
		"attendanceRecords": []map[string]any{{"studentId": "2021001", "status": "Present"}},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Attendance marked successfully", decode[map[string]any](t, w)["message"])

	w = s.do(call{method: http.MethodGet, path: "/api/attendance/2021001"})
	require.Equal(t, http.StatusOK, w.Code)
	records := decode[[]map[string]any](t, w)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-10", records[0]["date"])
	assert.Equal(t, "Present", records[0]["status"])
}

func TestAttendanceRemarkKeepsOneRecord(t *testing.T) {
	s := newServer(t, testConfig{})
	for _, status := range []string{"Present", "Absent"} {
		w := s.do(call{method: http.MethodPost, path: "/api/mark-attendance", body: map[string]any{
			"date":              "2024-01-10",
			"attendanceRecords": []map[string]any{{"studentId": 2021001, "status": status}},
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := s.do(call{method: http.MethodGet, path: "/api/attendance/2021001"})
	require.Equal(t, http.StatusOK, w.Code)
	records := decode[[]map[string]any](t, w)
	require.Len(t, records, 1)
	assert.Equal(t, "Absent", records[0]["status"])
}

func TestAttendanceErrors(t *testing.T) {
	s := newServer(t, testConfig{})

	w := s.do(call{method: http.MethodPost, path: "/api/mark-attendance", body: map[string]any{"date": "2024-01-10"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Invalid input format. "date" and "attendanceRecords" are required.`, decode[map[string]string](t, w)["error"])

	w = s.do(call{method: http.MethodPost, path: "/api/mark-attendance", body: map[string]any{"date": "2024-01-10", "attendanceRecords": "all present"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(call{method: http.MethodPost, path: "/api/mark-attendance", body: map[string]any{
		"date": "someday", "attendanceRecords": []map[string]any{{"studentId": "1", "status": "Present"}},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["error"])

	w = s.do(call{method: http.MethodGet, path: "/api/attendance/404"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No attendance records found for this student", decode[map[string]string](t, w)["message"])
}
