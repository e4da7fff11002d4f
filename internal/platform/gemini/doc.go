// Package gemini implements the generation.Generator interface using
// Google's Gemini API as the card generation backend.
package gemini
