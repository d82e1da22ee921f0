package rbac

import (
	"net/http"

	"go-lms/internal/shared/apperror"
)

var ErrUnknownRole = apperror.New(
	apperror.CodeInvalidInput,
	"unknown role",
	http.StatusBadRequest,
)
