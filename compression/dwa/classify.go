package dwa

import (
	"sort"
	"strings"

	"github.com/johannesvollmer/exrs-sub002/attribute"
)

// groupKind selects which coding path a channel's samples take.
type groupKind int

const (
	groupDeflate groupKind = iota // everything else, including all U32 channels
	groupRLE                      // *.A or A
	groupDCTPlain                 // standalone Y, BY, RY
	groupDCTCSC                   // an R,G,B triplet sharing a prefix
)

// channelGroup is one coding unit: either a lossy DCT triplet (three
// channel indices) or a single channel coded some other way.
type channelGroup struct {
	kind    groupKind
	indices []int // indices into ChannelList.List, length 3 for groupDCTCSC
}

func baseName(name string) (prefix, leaf string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i+1], name[i+1:]
	}
	return "", name
}

// classifyChannels groups a channel list the way DWA's entropy stage
// expects: RGB triplets sharing a prefix get CSC+DCT, standalone
// luma/chroma channels get DCT without CSC, alpha channels get RLE, and
// everything else (including all non-float channels) is deflate-only.
func classifyChannels(channels attribute.ChannelList) []channelGroup {
	used := make([]bool, len(channels.List))
	byPrefix := make(map[string]map[string]int)

	for i, ch := range channels.List {
		if ch.SampleType == attribute.SampleU32 {
			continue
		}
		prefix, leaf := baseName(ch.Name.String())
		if leaf == "R" || leaf == "G" || leaf == "B" {
			if byPrefix[prefix] == nil {
				byPrefix[prefix] = make(map[string]int)
			}
			byPrefix[prefix][leaf] = i
		}
	}

	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	var groups []channelGroup
	for _, prefix := range prefixes {
		leaves := byPrefix[prefix]
		r, rok := leaves["R"]
		g, gok := leaves["G"]
		b, bok := leaves["B"]
		if rok && gok && bok {
			groups = append(groups, channelGroup{kind: groupDCTCSC, indices: []int{r, g, b}})
			used[r], used[g], used[b] = true, true, true
		}
	}

	for i, ch := range channels.List {
		if used[i] {
			continue
		}
		_, leaf := baseName(ch.Name.String())

		switch {
		case ch.SampleType == attribute.SampleU32:
			groups = append(groups, channelGroup{kind: groupDeflate, indices: []int{i}})
		case leaf == "A":
			groups = append(groups, channelGroup{kind: groupRLE, indices: []int{i}})
		case leaf == "Y" || leaf == "BY" || leaf == "RY":
			groups = append(groups, channelGroup{kind: groupDCTPlain, indices: []int{i}})
		default:
			groups = append(groups, channelGroup{kind: groupDeflate, indices: []int{i}})
		}
	}

	return groups
}
