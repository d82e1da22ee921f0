package approvalerrors

import (
	"net/http"

	"go-lms/internal/shared/apperror"
)

var (
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
		http.StatusBadRequest,
	)
	ErrNotYourTurn = apperror.New(
		apperror.CodeForbidden,
		"approval step is not assigned to your role",
		http.StatusForbidden,
	)
	ErrNoPendingStep = apperror.New(
		apperror.CodeInvalidState,
		"no pending approval step for this request",
		http.StatusConflict,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"unknown decision",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"request state does not permit this decision",
		http.StatusBadRequest,
	)
	ErrForwardRoleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"forward requires a target role",
		http.StatusBadRequest,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown approver role",
		http.StatusBadRequest,
	)
	ErrNotCancellation = apperror.New(
		apperror.CodeInvalidState,
		"request has no pending cancellation",
		http.StatusBadRequest,
	)
	ErrCancelNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"only HR roles may finalize a cancellation",
		http.StatusForbidden,
	)
	ErrRecallNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"only HR roles may recall a leave",
		http.StatusForbidden,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not approved",
		http.StatusBadRequest,
	)
	ErrRecallOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"recall date must fall inside the leave period",
		http.StatusBadRequest,
	)
	ErrCertificateNotRequired = apperror.New(
		apperror.CodeInvalidState,
		"this leave does not require a duty-return certificate",
		http.StatusBadRequest,
	)
	ErrCertificateNotFound = apperror.New(
		apperror.CodeNotFound,
		"no pending certificate submission",
		http.StatusNotFound,
	)
	ErrCertificatePending = apperror.New(
		apperror.CodeConflict,
		"a certificate submission is already pending",
		http.StatusConflict,
	)
)
