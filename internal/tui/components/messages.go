package components

import "github.com/Veraticus/compliance-sentinel/internal/dashboard"

// InjectSubmittedMsg carries a validated inject form.
type InjectSubmittedMsg struct {
	Request dashboard.InjectRequest
}

// FormCanceledMsg closes the inject form without changes.
type FormCanceledMsg struct{}

// KeyEnteredMsg carries an API key typed into the key prompt.
type KeyEnteredMsg struct {
	Key string
}

// KeySkippedMsg dismisses the key prompt.
type KeySkippedMsg struct{}
