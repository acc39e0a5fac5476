package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adl-parti/membership-backend/factory"
	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/internal/dto"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	require.True(t, ok)
	require.NoError(t, entranslations.RegisterDefaultTranslations(validate, trans))

	cfg := &config.Config{IsDev: true}
	return &Handlers{
		factory:  &factory.Factory{Logger: logger.New(cfg)},
		config:   cfg,
		validate: validate,
		trans:    trans,
	}
}

func TestDecodeAndValidateAcceptsValidInput(t *testing.T) {
	h := newTestHandlers(t)

	body := `{"first_name":"أمين","last_name":"بوقرة","phone":"+213550000001","wilaya":"الجزائر","country":"الجزائر","first_join_year":2024}`
	r := httptest.NewRequest("POST", "/members", strings.NewReader(body))
	w := httptest.NewRecorder()

	var input dto.RegisterMemberInput
	require.True(t, h.decodeAndValidate(w, r, &input))
	require.Equal(t, "أمين", input.FirstName)
	require.Equal(t, 2024, input.FirstJoinYear)
}

func TestDecodeAndValidateReportsMissingFields(t *testing.T) {
	h := newTestHandlers(t)

	r := httptest.NewRequest("POST", "/members", strings.NewReader(`{"first_name":"أمين"}`))
	w := httptest.NewRecorder()

	var input dto.RegisterMemberInput
	require.False(t, h.decodeAndValidate(w, r, &input))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Message string           `json:"message"`
		Errors  []svc.FieldError `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "Input validation failed", body.Message)
	require.NotEmpty(t, body.Errors)
}

func TestDecodeAndValidateRejectsUnknownFields(t *testing.T) {
	h := newTestHandlers(t)

	r := httptest.NewRequest("POST", "/members", strings.NewReader(`{"first_name":"x","surprise":true}`))
	w := httptest.NewRecorder()

	var input dto.RegisterMemberInput
	require.False(t, h.decodeAndValidate(w, r, &input))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteJSONEnvelope(t *testing.T) {
	h := newTestHandlers(t)

	w := httptest.NewRecorder()
	require.NoError(t, h.writeJSON(w, http.StatusCreated, map[string]string{"membership_number": "162024000001"}, http.Header{}))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Data   map[string]string `json:"data"`
		Status int               `json:"status"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, http.StatusCreated, body.Status)
	require.Equal(t, "162024000001", body.Data["membership_number"])
}

func TestErrorResponseMapsAPIError(t *testing.T) {
	h := newTestHandlers(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/members/000000000000", nil)
	h.errorResponse(w, r, &svc.APIError{Status: http.StatusNotFound, Message: "member not found"})

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "member not found", body["message"])
}

func TestErrorResponseDefaultsTo500(t *testing.T) {
	h := newTestHandlers(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/members", nil)
	h.errorResponse(w, r, json.Unmarshal([]byte("{"), &struct{}{}))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "internal server error", body["message"])
}
