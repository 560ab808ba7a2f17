package audit

// Meta carries request attribution copied onto audit events.
type Meta struct {
	IPAddress string
	UserAgent string
}
