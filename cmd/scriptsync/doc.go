// Command scriptsync aligns a human-authored script and its translations with
// word-timestamped recognizer output and writes SRT subtitles per language,
// an optional merged bilingual track, and an optional FCPXML timeline.
//
//	scriptsync align --script ep01.txt --transcript ep01.json --language en \
//	    --translation fr=ep01.fr.txt
//	scriptsync batch jobs.toml
//	scriptsync history list
//	scriptsync srt validate ep01_en_source.srt
package main
