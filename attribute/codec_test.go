package attribute

import (
	"bytes"
	"testing"

	"github.com/johannesvollmer/exrs-sub002/ioutil"
)

func TestAttributeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		value any
	}{
		{"dataWindow", NewIntegerBoundsFromMinMax(Vec2[int32]{X: 0, Y: 0}, Vec2[int32]{X: 7, Y: 3})},
		{"pixelAspectRatio", float32(1.0)},
		{"compression", CompressionPIZ},
		{"lineOrder", LineOrderIncreasing},
		{"screenWindowWidth", float32(2.5)},
		{"name", "rgba"},
		{"channels", NewChannelList([]ChannelDescription{
			{Name: Text{value: "R"}, SampleType: SampleF16, Sampling: Vec2[int]{X: 1, Y: 1}},
			{Name: Text{value: "G"}, SampleType: SampleF16, Sampling: Vec2[int]{X: 1, Y: 1}},
		})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			name, _ := NewText(c.name, false)

			var buf bytes.Buffer
			if err := WriteAttribute(&buf, Attribute{Name: name, Value: c.value}, false); err != nil {
				t.Fatalf("write: %v", err)
			}

			got, err := ReadAttribute(ioutil.NewPeekReader(&buf), false, ioutil.DefaultSoftMax, ioutil.DefaultHardMax)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Name.String() != c.name {
				t.Fatalf("name = %q, want %q", got.Name.String(), c.name)
			}
		})
	}
}

func TestUnknownKindRoundTripsAsRaw(t *testing.T) {
	name, _ := NewText("custom", false)
	var buf bytes.Buffer
	_ = WriteAttribute(&buf, Attribute{Name: name, Value: Raw{Kind: "customKind", Data: []byte{1, 2, 3}}}, false)

	got, err := ReadAttribute(ioutil.NewPeekReader(&buf), false, ioutil.DefaultSoftMax, ioutil.DefaultHardMax)
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := got.Value.(Raw)
	if !ok {
		t.Fatalf("expected Raw, got %T", got.Value)
	}
	if raw.Kind != "customKind" || !bytes.Equal(raw.Data, []byte{1, 2, 3}) {
		t.Fatalf("raw = %+v", raw)
	}
}
