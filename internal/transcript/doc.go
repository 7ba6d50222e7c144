// Package transcript models recognizer output and reads it from the JSON
// shapes the supported recognizers produce.
package transcript
