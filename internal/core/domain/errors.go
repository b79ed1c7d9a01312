package domain

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidQuestionID = errors.New("invalid question id")
	ErrInvalidChoice     = errors.New("invalid choice for this question")
	ErrNoChoiceSelected  = errors.New("you didn't select a choice")
	ErrEmptyText         = errors.New("text is required")
	ErrInvalidTime       = errors.New("invalid time value")
	ErrInternal          = errors.New("internal server error")
)
