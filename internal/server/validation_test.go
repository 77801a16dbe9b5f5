package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type validationFixture struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,min=2"`
	Age   int    `validate:"gte=18"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(validationFixture{Email: "user@example.com", Name: "User", Age: 30})
	assert.Empty(t, errs)
}

func TestValidateStruct_CollectsAllErrors(t *testing.T) {
	errs := ValidateStruct(validationFixture{Email: "not-an-email", Name: "", Age: 10})

	assert.Len(t, errs, 3)
	assert.Equal(t, "Email", errs[0].Field)
	assert.Equal(t, "Email must be a valid email address", errs[0].Message)
	assert.Equal(t, "Name is required", errs[1].Message)
	assert.Equal(t, "Age must be greater than or equal to 18", errs[2].Message)
}

func TestRespondWithValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationErrors(c, []ValidationError{
		{Field: "Email", Tag: "required", Message: "Email is required"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Len(t, body["details"], 1)
}
