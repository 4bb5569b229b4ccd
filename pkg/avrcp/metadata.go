package avrcp

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Attribute ids of GetElementAttributes.
const (
	AttrTitle       uint32 = 1
	AttrArtist      uint32 = 2
	AttrAlbum       uint32 = 3
	AttrTrackNumber uint32 = 4
	AttrTotalTracks uint32 = 5
	AttrGenre       uint32 = 6
	AttrPlayingTime uint32 = 7
)

// MaxAttrLen bounds a single attribute value in bytes.
const MaxAttrLen = 255

// Metadata describes the current track.
type Metadata struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	TrackNumber string
	TotalTracks string
	// Duration is valid only when HasDuration is set.
	Duration    time.Duration
	HasDuration bool

	Attrs map[uint32]string
}

// Has reports whether the attribute was present in the answer.
func (m *Metadata) Has(id uint32) bool {
	_, ok := m.Attrs[id]
	return ok
}

// IDs returns the present attribute ids in ascending order.
func (m *Metadata) IDs() []uint32 {
	ids := make([]uint32, 0, len(m.Attrs))
	for id := range m.Attrs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func newMetadata(attrs map[uint32]string) Metadata {
	m := Metadata{Attrs: attrs}
	m.Title = attrs[AttrTitle]
	m.Artist = attrs[AttrArtist]
	m.Album = attrs[AttrAlbum]
	m.Genre = attrs[AttrGenre]
	m.TrackNumber = attrs[AttrTrackNumber]
	m.TotalTracks = attrs[AttrTotalTracks]
	if v, ok := attrs[AttrPlayingTime]; ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			m.Duration, m.HasDuration = time.Duration(ms)*time.Millisecond, true
		}
	}
	return m
}

func cleanText(b []byte) string {
	if len(b) > MaxAttrLen {
		b = b[:MaxAttrLen]
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
}
