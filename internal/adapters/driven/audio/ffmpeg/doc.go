// Package ffmpeg probes and plays audio with the ffprobe and ffplay
// binaries. Binaries are resolved on every call so a config reload that
// changes audio.player or audio.probe takes effect immediately.
package ffmpeg
