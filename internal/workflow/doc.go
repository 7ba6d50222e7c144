// Package workflow runs one script-alignment request end to end.
//
// A Request names the source script, its translations, and the recognizer
// output on disk. The Runner loads them, hands the in-memory Job to Process
// (normalize, align, project tracks, build the optional timeline), renders
// the artifacts with Render, and writes the whole file set through
// output.Writer so a failure leaves no partial subtitles behind. Every run,
// failed or not, is recorded in the history ledger when one is configured.
//
// Fatal failures carry one of the package markers (ErrInput,
// ErrConfiguration, ErrAlignment, ErrEmission, ErrOutput) wrapped around the
// underlying align or subtitle error; ErrorKind names the taxonomy class.
// A translation that cannot be loaded or is not paragraph-parallel to the
// source is skipped and reported in Result.FailedTranslations while the
// remaining tracks still emit.
package workflow
