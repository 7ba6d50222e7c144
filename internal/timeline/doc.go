// Package timeline exports subtitle tracks as an FCPXML project.
//
// The source track occupies the primary spine; each translation is a
// connected title on its own lane nested in the matching source title. Every
// time is quantized to whole frames and written as an exact rational number
// of seconds. Seamless mode pulls each title forward by a small lead-in and
// stretches it to meet the next one, so the spine has no gaps.
package timeline
