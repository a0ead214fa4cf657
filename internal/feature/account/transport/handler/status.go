package handler

import (
	"net/http"

	"account_backend/internal/feature/account/domain"
)

var httpStatuses = map[domain.StatusCode]int{
	domain.StatusSuccess:              http.StatusOK,
	domain.StatusAuthenticationFailed: http.StatusUnauthorized,
	domain.StatusForbidden:            http.StatusForbidden,
	domain.StatusNotFound:             http.StatusNotFound,
	domain.StatusSessionExpired:       http.StatusRequestTimeout,
	domain.StatusConflict:             http.StatusConflict,
	domain.StatusInvalidInput:         http.StatusUnprocessableEntity,
	domain.StatusInternalError:        http.StatusInternalServerError,
}

// HTTPStatus maps an outcome code to its HTTP status.
func HTTPStatus(code domain.StatusCode) int {
	if s, ok := httpStatuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// messages holds the user-facing message for each outcome of one route.
type messages map[domain.StatusCode]string

var fallbackMessages = messages{
	domain.StatusSuccess:              "success",
	domain.StatusAuthenticationFailed: "authentication failed",
	domain.StatusForbidden:            "access denied",
	domain.StatusNotFound:             "not found",
	domain.StatusSessionExpired:       "session expired",
	domain.StatusConflict:             "already in use",
	domain.StatusInvalidInput:         "invalid input",
	domain.StatusInternalError:        "internal server error",
}

func (m messages) of(code domain.StatusCode) string {
	if msg, ok := m[code]; ok {
		return msg
	}
	return fallbackMessages.of(code)
}

var (
	registerMessages = messages{
		domain.StatusSuccess:              "registration succeeded",
		domain.StatusAuthenticationFailed: "registration failed",
		domain.StatusNotFound:             "the university is not registered",
		domain.StatusConflict:             "the account or email is already registered",
		domain.StatusInvalidInput:         "invalid registration data",
	}
	loginMessages = messages{
		domain.StatusSuccess:              "login succeeded",
		domain.StatusAuthenticationFailed: "ID or password does not match",
		domain.StatusInvalidInput:         "invalid login data",
	}
	signoutMessages = messages{
		domain.StatusSuccess:              "account deleted",
		domain.StatusAuthenticationFailed: "failed to delete the account",
		domain.StatusSessionExpired:       "session expired",
	}
	forgotIDMessages = messages{
		domain.StatusSuccess:  "ID found",
		domain.StatusNotFound: "failed to find the ID",
	}
	forgotPasswordMessages = messages{
		domain.StatusSuccess:  "password changed",
		domain.StatusNotFound: "failed to change the password",
	}
	profileMessages = messages{
		domain.StatusSuccess:      "profile loaded",
		domain.StatusNotFound:     "failed to load the profile",
		domain.StatusInvalidInput: "malformed token",
	}
	updateImageMessages = messages{
		domain.StatusSuccess:      "profile image updated",
		domain.StatusForbidden:    "not allowed to change this profile",
		domain.StatusNotFound:     "failed to load the account",
		domain.StatusInvalidInput: "invalid image",
	}
)
