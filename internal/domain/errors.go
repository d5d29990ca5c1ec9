package domain

import "errors"

var (
	// ErrNotEnoughQuestions is returned when fewer than the required number of
	// questions could be assembled for a daily run.
	ErrNotEnoughQuestions = errors.New("not enough questions for today's quiz")
	// ErrRunNotStarted is returned for answer or completion calls before the
	// run entered InProgress.
	ErrRunNotStarted = errors.New("quiz run not started")
	// ErrRunCompleted is returned when acting on a run that already finished.
	ErrRunCompleted = errors.New("quiz run already completed")
	// ErrRunInProgress is returned when completion is requested before the
	// last answer was accepted.
	ErrRunInProgress = errors.New("quiz run still in progress")
	// ErrAlreadyAnswered is returned when a second answer arrives for the
	// current question; the first answer is final.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrQuestionNotFound indicates a submitted question ID is not the run's
	// current question or does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOption indicates a submitted option tag is not one of A-D.
	ErrInvalidOption = errors.New("invalid option tag")
	// ErrExamNotFound indicates an unknown exam announcement ID.
	ErrExamNotFound = errors.New("exam not found")
)
