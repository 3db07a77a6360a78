package entity

type EventKind string

const (
	EventSurfaceOpened EventKind = "surface-opened"
	EventFileChooser   EventKind = "file-chooser"
	EventDownload      EventKind = "download"
	EventNavigation    EventKind = "navigation"
)

// AsyncEvent is the resolved payload of a pending async event subscription.
// Exactly the fields matching Kind are populated.
type AsyncEvent struct {
	Kind      EventKind
	URL       string
	SurfaceID string
	Download  *Download
}
