package domain

import "errors"

// Mode errors
var (
	ErrInvalidMode = errors.New("invalid mode")
)

// Challenge errors
var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrChallengePackNotFound = errors.New("challenge pack not found")
	ErrInvalidChallenge      = errors.New("invalid challenge")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
