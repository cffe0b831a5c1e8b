// Package model defines the core domain models used throughout the application.
package model

// Flag is the binary risk classification of a transaction.
type Flag string

// Flag values.
const (
	FlagClean      Flag = "Clean"
	FlagSuspicious Flag = "Suspicious"
)

// NoReason is stored as the reason of a clean transaction.
const NoReason = "-"
