package models

// Viewer is the visibility context of a request: who is asking, and with
// what role. The zero value is an anonymous viewer.
type Viewer struct {
	Authenticated bool
	UserID        string
	Staff         bool
}

// Anonymous returns the viewer for an unauthenticated request.
func Anonymous() Viewer {
	return Viewer{}
}

// CanSee reports whether the viewer may see the given document.
// Anonymous viewers see public documents only; authenticated non-staff
// viewers additionally see their own; staff see everything.
func (v Viewer) CanSee(doc *Document) bool {
	if doc.IsPublic {
		return true
	}
	if v.Staff {
		return true
	}
	return v.Authenticated && v.UserID == doc.AuthorID
}

// Owns reports whether the viewer is the document's author.
func (v Viewer) Owns(doc *Document) bool {
	return v.Authenticated && v.UserID == doc.AuthorID
}
