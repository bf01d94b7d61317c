package domain

import "errors"

var (
	// ErrNoActiveQuestion is returned when an answer is submitted while no question is being asked.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrQuestionAlreadyAnswered is returned when the current question was already answered.
	ErrQuestionAlreadyAnswered = errors.New("question already answered")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank indicates a loaded bank cannot be served.
	ErrInvalidBank = errors.New("invalid question bank")
)
