// SPDX-License-Identifier: EPL-2.0

package audmeta

import (
	"io"

	"github.com/ik5/audmeta/formats/aiff"
	"github.com/ik5/audmeta/formats/mpeg"
	"github.com/ik5/audmeta/formats/vorbis"
	"github.com/ik5/audmeta/formats/wav"
	"github.com/ik5/audmeta/meta"
)

// DefaultRegistry returns a registry holding every prober this module
// ships, keyed "mp3", "wav", "ogg vorbis" and "aiff".
func DefaultRegistry() *meta.Registry {
	reg := meta.NewRegistry()
	reg.Register("mp3", mpeg.Prober{})
	reg.Register("wav", wav.Prober{})
	reg.Register("ogg vorbis", vorbis.Prober{})
	reg.Register("aiff", aiff.Prober{})

	return reg
}

// Probe is a convenience that runs the default prober for format over
// r. Unknown format keys return meta.ErrUnknownFormat.
//
// Example:
//
//	file, _ := os.Open("audio.mp3")
//	st, _ := file.Stat()
//	info, err := audmeta.Probe("mp3", file, meta.Options{
//	    TotalBytes: st.Size(),
//	    Duration:   true,
//	})
func Probe(format string, r io.Reader, opt meta.Options) (*meta.Info, error) {
	prober, ok := DefaultRegistry().Get(format)
	if !ok {
		return nil, meta.ErrUnknownFormat
	}

	return prober.Probe(r, opt)
}
