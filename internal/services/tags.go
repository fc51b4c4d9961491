package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/tempodl/internal/models"
)

// bpmFrameID is the ID3v2 text frame holding beats per minute.
const bpmFrameID = "TBPM"

// TagTempo writes title, artist and (when known) tempo into the ID3v2 tag of an mp3 file.
//
// ID3v2 stores TBPM as an integer string, so the tempo is rounded.
func TagTempo(path string, track models.Track) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening tag of %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(track.Name)
	tag.SetArtist(track.Artist)
	if track.TempoKnown {
		tag.DeleteFrames(bpmFrameID)
		tag.AddTextFrame(bpmFrameID, tag.DefaultEncoding(), strconv.Itoa(int(math.Round(track.BPM))))
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving tag of %s: %w", path, err)
	}
	return nil
}
