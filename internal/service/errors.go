package service

import "errors"

// Ошибки изменения записей. Веб-слой переводит их в HTTP-статус и текст
var (
	ErrSchedulerNotFound   = errors.New("scheduler not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSchedulerMismatch   = errors.New("appointment does not belong to this scheduler")
	ErrNotAllowed          = errors.New("not allowed to change this appointment")
	ErrGradingDisabled     = errors.New("grading is disabled for this scheduler")
	ErrInvalidGrade        = errors.New("invalid grade")
)
