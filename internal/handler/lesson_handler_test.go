package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

func lessonFilterContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/school-1/lessons/active"+query, nil)
	return c
}

func TestParseLessonFilterRejectsUnknownDay(t *testing.T) {
	_, err := parseLessonFilter(lessonFilterContext(t, "?day=banana"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseLessonFilterRejectsUnknownWeek(t *testing.T) {
	_, err := parseLessonFilter(lessonFilterContext(t, "?week=banana"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseLessonFilterRejectsUppercaseDay(t *testing.T) {
	_, err := parseLessonFilter(lessonFilterContext(t, "?day=Monday"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseLessonFilterAcceptsDayAndWeek(t *testing.T) {
	filter, err := parseLessonFilter(lessonFilterContext(t, "?day=monday&week=odd"))

	require.NoError(t, err)
	require.NotNil(t, filter.Day)
	require.NotNil(t, filter.Week)
	assert.Equal(t, models.Monday, *filter.Day)
	assert.Equal(t, models.WeekOdd, *filter.Week)
}

func TestParseLessonFilterRequiresRangeBounds(t *testing.T) {
	_, err := parseLessonFilter(lessonFilterContext(t, "?from=2023-03-13T08:00:00Z"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
