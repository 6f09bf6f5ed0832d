// Package provider defines the translation provider interface and implementations.
package provider

import "github.com/drivelane/lingo"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = lingo.Provider

// Request is an alias to the main package type.
type Request = lingo.Request

// Translation is an alias to the main package type.
type Translation = lingo.Translation
