package attribute

import exr "github.com/johannesvollmer/exrs-sub002"

// Text is a 1..=255 byte payload used for attribute names, attribute kinds,
// and channel names. It is immutable once constructed.
type Text struct {
	value string
}

// MaxTextLength is the two-tiered length limit: 31 bytes unless the file's
// long-names flag is set, in which case the limit is 255 bytes.
func MaxTextLength(longNames bool) int {
	if longNames {
		return 255
	}
	return 31
}

// NewText validates s against the long-names rule and returns a Text.
func NewText(s string, longNames bool) (Text, error) {
	if len(s) == 0 || len(s) > MaxTextLength(longNames) {
		return Text{}, exr.Invalid("text length")
	}
	return Text{value: s}, nil
}

func (t Text) String() string { return t.value }
