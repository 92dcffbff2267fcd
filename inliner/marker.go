package inliner

import (
	"github.com/viant/inliner/sink"
	"github.com/viant/inliner/unit"
)

const (
	beginMarker = "// begin of inlined version of class "
	endMarker   = "// end of inlined version of class "
)

// BeginMarker returns the comment opening an inlined unit body
func BeginMarker(ref unit.Ref) string {
	return beginMarker + ref.String()
}

// EndMarker returns the comment closing an inlined unit body
func EndMarker(ref unit.Ref) string {
	return endMarker + ref.String()
}

// emitMarker emits a marker surrounded by blank lines
func emitMarker(s sink.Sink, marker string) error {
	for _, line := range []string{"", marker, ""} {
		if err := s.Code(line); err != nil {
			return err
		}
	}
	return nil
}
