package bridge

import (
	"github.com/robotalks/ampbridge/pkg/nextion"
)

// Objects of the HMI project.
const (
	ObjTitle       = "tTitle"
	ObjArtist      = "tArtist"
	ObjAlbum       = "tAlbum"
	ObjGenre       = "tGenre"
	ObjTimeCurrent = "tTIME_CUR"
	ObjTime        = "tTime"
	ObjTrackNumber = "tTrack_num"
	ObjTotalTracks = "tTotalTracks"
	ObjEQMain      = "tEQ0"
	ObjEQPlayer    = "tEQ1"
	ObjState       = "tState"
)

// maxNumberText bounds track number fields.
const maxNumberText = 8

// Pages lists the objects shown on each page.
var Pages = map[int][]string{
	0: {ObjEQMain},
	1: {
		ObjEQPlayer, ObjState,
		ObjTitle, ObjArtist, ObjAlbum, ObjGenre,
		ObjTimeCurrent, ObjTime, ObjTrackNumber, ObjTotalTracks,
	},
}

var metaObjects = []string{
	ObjTitle, ObjArtist, ObjAlbum, ObjGenre,
	ObjTimeCurrent, ObjTime, ObjTrackNumber, ObjTotalTracks,
}

// pageView forwards updates for objects on the current page only;
// the display rejects instructions for objects it doesn't show.
// Other pages are brought up to date when they are entered.
type pageView struct {
	link   *nextion.Link
	fields map[string]string
}

func newPageView(link *nextion.Link) *pageView {
	v := &pageView{link: link, fields: make(map[string]string)}
	v.clear()
	return v
}

func (v *pageView) clear() {
	for _, obj := range metaObjects {
		v.fields[obj] = nextion.Placeholder
	}
}

func (v *pageView) onPage(obj string) bool {
	for _, o := range Pages[v.link.Page()] {
		if o == obj {
			return true
		}
	}
	return false
}

// Enqueue implements playback.Publisher.
func (v *pageView) Enqueue(cmd nextion.Command) {
	if cmd.Object == "" || v.onPage(cmd.Object) {
		v.link.Enqueue(cmd)
	}
}

// set updates a text field and publishes it when changed.
func (v *pageView) set(obj, text string, max int) {
	cmd := nextion.TextN(obj, text, max)
	if v.fields[obj] == cmd.Value {
		return
	}
	v.fields[obj] = cmd.Value
	v.Enqueue(cmd)
}

func (v *pageView) get(obj string) string {
	return v.fields[obj]
}

// flush sends all known fields of the current page.
func (v *pageView) flush() {
	for _, obj := range Pages[v.link.Page()] {
		if text, ok := v.fields[obj]; ok {
			v.link.Enqueue(nextion.Command{Object: obj, Attr: "txt", Value: text, Quoted: true})
		}
	}
}
