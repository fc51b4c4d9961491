package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownBPM is written in place of the number when a track has no tempo.
const UnknownBPM = "unknown"

var nameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"\x00", "",
)

// FormatBPM renders a tempo the way it appears in file names: shortest decimal form with at least one
// fractional digit, so 128.3 stays "128.3" and 120 becomes "120.0".
func FormatBPM(bpm float64) string {
	s := strconv.FormatFloat(bpm, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SanitizeName makes s safe to use as a single path element.
func SanitizeName(s string) string {
	s = strings.TrimSpace(nameReplacer.Replace(s))
	switch s {
	case "", ".", "..":
		return "_"
	}
	return s
}

// TrackStem builds the file name (without extension) for a downloaded track:
//
//	"{bpm} BPM — {song} - {artist}"
func TrackStem(song, artist string, bpm float64, tempoKnown bool) string {
	tempo := UnknownBPM
	if tempoKnown {
		tempo = FormatBPM(bpm)
	}
	return fmt.Sprintf("%s BPM — %s - %s", tempo, SanitizeName(song), SanitizeName(artist))
}
