// Package audio provides sound playback for the host.
// It uses the beep library to decode WAV, OGG, and MP3 files and plays them
// through a shared output device with a global volume.
package audio
