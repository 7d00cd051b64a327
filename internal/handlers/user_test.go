package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user-task-api/internal/config"
	"user-task-api/internal/database"
	apierrors "user-task-api/internal/errors"
	"user-task-api/internal/middleware"
	"user-task-api/internal/repository"
	"user-task-api/internal/services"
)

// newTestRouter builds a fully routed engine over an in-memory SQLite
// database, mirroring the production wiring in NewRouter.
func newTestRouter(t *testing.T, deletePolicy string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userService := services.NewUserService(userRepo, deletePolicy)
	taskService := services.NewTaskService(taskRepo, userRepo)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	registerRoutes(router,
		NewUserHandler(userService, taskService, log),
		NewTaskHandler(taskService, log),
		NewHealthHandler(db, "user-task-api", time.Now()),
	)

	return router, db
}

func performRequest(router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// UserHandlerTestSuite defines the test suite for the user endpoints
type UserHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
}

// SetupTest runs before each test
func (suite *UserHandlerTestSuite) SetupTest() {
	suite.router, suite.db = newTestRouter(suite.T(), config.DeletePolicyDetach)
}

func (suite *UserHandlerTestSuite) createUser(username, email string) uint64 {
	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"`+username+`","email":"`+email+`"}`))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(suite.T(), w)
	return uint64(body["id"].(float64))
}

func (suite *UserHandlerTestSuite) createTask(body string) uint64 {
	w := performRequest(suite.router, "POST", "/tasks", []byte(body))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	decoded := decodeBody(suite.T(), w)
	return uint64(decoded["task_id"].(float64))
}

func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"alice","email":"a@x.com","full_name":"Alice Liddell"}`))

	suite.Require().Equal(http.StatusCreated, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), "alice", body["username"])
	assert.Equal(suite.T(), "a@x.com", body["email"])
	assert.Equal(suite.T(), "Alice Liddell", body["full_name"])
	assert.NotZero(suite.T(), body["id"])
	assert.NotEmpty(suite.T(), body["created_at"])

	// The created record is retrievable by its returned id with identical
	// field values.
	id := uint64(body["id"].(float64))
	w = performRequest(suite.router, "GET", "/users/"+itoa(id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	fetched := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), body["username"], fetched["username"])
	assert.Equal(suite.T(), body["email"], fetched["email"])
	assert.Equal(suite.T(), body["full_name"], fetched["full_name"])
}

func (suite *UserHandlerTestSuite) TestCreateUser_UsernameTooShort() {
	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"ab","email":"x@y.com"}`))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidFormat, body["code"])
}

func (suite *UserHandlerTestSuite) TestCreateUser_InvalidEmail() {
	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"alice","email":"not-an-email"}`))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidFormat, body["code"])
}

func (suite *UserHandlerTestSuite) TestCreateUser_MissingRequiredFields() {
	w := performRequest(suite.router, "POST", "/users", []byte(`{"username":"alice"}`))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidData, body["code"])
}

func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateUsername() {
	suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"alice","email":"b@x.com"}`))

	suite.Require().Equal(http.StatusConflict, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUsernameExists, body["code"])
}

func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "POST", "/users",
		[]byte(`{"username":"bob","email":"a@x.com"}`))

	suite.Require().Equal(http.StatusConflict, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeEmailExists, body["code"])
}

func (suite *UserHandlerTestSuite) TestListUsers_OrderedWithWindow() {
	suite.createUser("alice", "a@x.com")
	suite.createUser("bob", "b@x.com")
	suite.createUser("carol", "c@x.com")

	w := performRequest(suite.router, "GET", "/users", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	users := decodeList(suite.T(), w)
	suite.Require().Len(users, 3)
	assert.Equal(suite.T(), "alice", users[0]["username"])
	assert.Equal(suite.T(), "carol", users[2]["username"])

	w = performRequest(suite.router, "GET", "/users?limit=1&offset=1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	users = decodeList(suite.T(), w)
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), "bob", users[0]["username"])

	w = performRequest(suite.router, "GET", "/users?limit=nope", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestGetUser_NotFound() {
	w := performRequest(suite.router, "GET", "/users/42", nil)

	suite.Require().Equal(http.StatusNotFound, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserNotFound, body["code"])
}

func (suite *UserHandlerTestSuite) TestGetUser_MalformedID() {
	w := performRequest(suite.router, "GET", "/users/abc", nil)

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidData, body["code"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_PartialLeavesOthersUntouched() {
	id := suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"email":"new@x.com"}`))

	suite.Require().Equal(http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), "new@x.com", body["email"])
	assert.Equal(suite.T(), "alice", body["username"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_EmptyBody() {
	id := suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "PUT", "/users/"+itoa(id), []byte(`{}`))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeNoFieldsProvided, body["code"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NullUsernameRejected() {
	id := suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"username":null}`))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidFormat, body["code"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_SelfAssignmentIsNotConflict() {
	id := suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"username":"alice","email":"a@x.com"}`))

	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
}

func (suite *UserHandlerTestSuite) TestUpdateUser_DuplicateUsername() {
	suite.createUser("alice", "a@x.com")
	id := suite.createUser("bob", "b@x.com")

	w := performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"username":"alice"}`))

	suite.Require().Equal(http.StatusConflict, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUsernameExists, body["code"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NullClearsFullName() {
	id := suite.createUser("alice", "a@x.com")
	w := performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"full_name":"Alice Liddell"}`))
	suite.Require().Equal(http.StatusOK, w.Code)

	w = performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"full_name":null}`))

	suite.Require().Equal(http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), "", body["full_name"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NotFound() {
	w := performRequest(suite.router, "PUT", "/users/42",
		[]byte(`{"full_name":"Ghost"}`))

	suite.Require().Equal(http.StatusNotFound, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserNotFound, body["code"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_UpdatedAtMonotonic() {
	id := suite.createUser("alice", "a@x.com")

	w := performRequest(suite.router, "GET", "/users/"+itoa(id), nil)
	first := parseTime(suite.T(), decodeBody(suite.T(), w)["updated_at"].(string))

	time.Sleep(10 * time.Millisecond)
	w = performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"full_name":"Alice"}`))
	suite.Require().Equal(http.StatusOK, w.Code)
	second := parseTime(suite.T(), decodeBody(suite.T(), w)["updated_at"].(string))

	time.Sleep(10 * time.Millisecond)
	w = performRequest(suite.router, "PUT", "/users/"+itoa(id),
		[]byte(`{"full_name":"Alice L"}`))
	suite.Require().Equal(http.StatusOK, w.Code)
	third := parseTime(suite.T(), decodeBody(suite.T(), w)["updated_at"].(string))

	assert.False(suite.T(), second.Before(first))
	assert.False(suite.T(), third.Before(second))
}

func (suite *UserHandlerTestSuite) TestDeleteUser_DetachesTasks() {
	id := suite.createUser("alice", "a@x.com")
	taskID := suite.createTask(`{"name":"review","user_id":` + itoa(id) + `}`)

	w := performRequest(suite.router, "DELETE", "/users/"+itoa(id), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	assert.Empty(suite.T(), w.Body.Bytes())

	w = performRequest(suite.router, "GET", "/users/"+itoa(id), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// The dependent task survives unassigned.
	w = performRequest(suite.router, "GET", "/tasks/"+itoa(taskID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Nil(suite.T(), body["user_id"])
}

func (suite *UserHandlerTestSuite) TestDeleteUser_RestrictPolicy() {
	router, _ := newTestRouter(suite.T(), config.DeletePolicyRestrict)

	w := performRequest(router, "POST", "/users",
		[]byte(`{"username":"alice","email":"a@x.com"}`))
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := uint64(decodeBody(suite.T(), w)["id"].(float64))

	w = performRequest(router, "POST", "/tasks",
		[]byte(`{"name":"review","user_id":`+itoa(id)+`}`))
	suite.Require().Equal(http.StatusCreated, w.Code)
	taskID := uint64(decodeBody(suite.T(), w)["task_id"].(float64))

	w = performRequest(router, "DELETE", "/users/"+itoa(id), nil)
	suite.Require().Equal(http.StatusConflict, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserHasTasks, body["code"])

	// Once the task is released the delete goes through.
	w = performRequest(router, "DELETE", "/tasks/"+itoa(taskID), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	w = performRequest(router, "DELETE", "/users/"+itoa(id), nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser_NotFound() {
	w := performRequest(suite.router, "DELETE", "/users/42", nil)

	suite.Require().Equal(http.StatusNotFound, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserNotFound, body["code"])
}

func (suite *UserHandlerTestSuite) TestListUserTasks() {
	id := suite.createUser("alice", "a@x.com")
	other := suite.createUser("bob", "b@x.com")
	suite.createTask(`{"name":"one","user_id":` + itoa(id) + `}`)
	suite.createTask(`{"name":"other","user_id":` + itoa(other) + `}`)
	suite.createTask(`{"name":"two","user_id":` + itoa(id) + `}`)

	w := performRequest(suite.router, "GET", "/users/"+itoa(id)+"/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	tasks := decodeList(suite.T(), w)
	suite.Require().Len(tasks, 2)
	assert.Equal(suite.T(), "one", tasks[0]["name"])
	assert.Equal(suite.T(), "two", tasks[1]["name"])
}

func (suite *UserHandlerTestSuite) TestListUserTasks_UserNotFound() {
	w := performRequest(suite.router, "GET", "/users/42/tasks", nil)

	suite.Require().Equal(http.StatusNotFound, w.Code)
	body := decodeBody(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserNotFound, body["code"])
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func parseTime(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)
	return parsed
}
