// Package audio plays a sound when an alert is shown. It uses the beep
// library to decode WAV, OGG and MP3 files, with per-urgency sounds and a
// shared volume setting.
package audio
