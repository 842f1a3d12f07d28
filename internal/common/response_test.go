package common_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/common"
	"notifier/pkg/dispatch"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handle(err error) (int, common.APIResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	common.HandleError(c, err)

	var resp common.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", common.NewNotFoundError("delivery", "x"), http.StatusNotFound},
		{"validation", common.NewValidationError("bad"), http.StatusBadRequest},
		{"unauthorized", common.NewUnauthorizedError(""), http.StatusUnauthorized},
		{"template not found", dispatch.NewTemplateNotFoundError("welcome", dispatch.ChannelIdentity{}), http.StatusNotFound},
		{"unknown channel", dispatch.NewUnknownChannelError("contact", reflect.TypeFor[string]()), http.StatusUnprocessableEntity},
		{"build", dispatch.NewBuildError("sms", "from"), http.StatusUnprocessableEntity},
		{"transport", fmt.Errorf("sending: %w", dispatch.NewTransportError("email", "resend", errors.New("down"))), http.StatusBadGateway},
		{"provider", common.NewProviderError("resend", 0, errors.New("down")), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := handle(tt.err)
			assert.Equal(t, tt.want, code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.want, resp.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	_, resp := handle(errors.New("db password is hunter2"))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "internal server error", resp.Error.Message)
}
