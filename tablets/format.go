package tablets

import (
	"regexp"

	"github.com/zeptools/tablet-core/orders"
)

// Fixed captions drawn on every tablet slot.
const (
	CaptionDeliverance = "佛力超度"
	CaptionDedication  = "拜荐"
	CaptionLotusSeat   = "莲位"
	CaptionLiving      = "阳上"

	prefixMother = "母 "
	prefixFather = "父 "

	prefixLateFather = "显考 "
	prefixLateMother = "显妣 "

	centerAncestors  = "门堂上历代祖先"
	centerCreditors  = "冤亲债主"
	unbornChildLabel = "无缘子女"
)

var regexNameSep = regexp.MustCompile(`[,\s]+`)

// SplitNames splits a raw field value on commas and whitespace,
// dropping empty segments.
func SplitNames(text string) []string {
	parts := regexNameSep.Split(text, -1)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// FoldUnbornParents rewrites an A3/B3 item's form in place: the mother
// and father fields fold into the owner list, each value prefixed with
// its parent label, mother entries first.
func FoldUnbornParents(cat Category, item *orders.ItemPrintData) {
	if cat != CatA3 && cat != CatB3 {
		return
	}
	var ownerList []string
	if vals, ok := item.Form.Pop("mother"); ok {
		for _, v := range vals {
			ownerList = append(ownerList, prefixMother+v)
		}
	}
	if vals, ok := item.Form.Pop("father"); ok {
		for _, v := range vals {
			ownerList = append(ownerList, prefixFather+v)
		}
	}
	if len(ownerList) > 0 {
		item.Form["owner"] = ownerList
	}
}

// relation pairs that flip the name column order when both appear
var reversalPairs = [][2]string{
	{"显考", "显妣"},
	{"祖考", "祖妣"},
}

// ReverseOnPairedRelations flips both lists when a reversal pair is
// fully present in the relations. Returns the (possibly new) slices.
func ReverseOnPairedRelations(people []string, relations []string) ([]string, []string) {
	for _, pair := range reversalPairs {
		if containsString(relations, pair[0]) && containsString(relations, pair[1]) {
			return reversed(people), reversed(relations)
		}
	}
	return people, relations
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func reversed(list []string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return out
}

// PadRelations pads the relation list with empty strings up to count.
func PadRelations(relations []string, count int) []string {
	for len(relations) < count {
		relations = append(relations, "")
	}
	return relations
}

// CenterText - the main column of a slot.
// A1/B1: surname + suffix (suffix defaults to the ancestors line).
// A2/B2: empty. A3/B3: a single space. C: the creditors line.
func CenterText(cat Category, form orders.FormData) string {
	switch cat {
	case CatC:
		return centerCreditors
	case CatA1, CatB1:
		return surnameLine(form)
	case CatA2, CatB2:
		return ""
	case CatA3, CatB3:
		return " "
	}
	return surnameLine(form)
}

func surnameLine(form orders.FormData) string {
	suffix := centerAncestors
	if form.Has("suffix") {
		suffix = form.First("suffix")
	}
	return form.First("surname") + suffix
}

// ParentPrefixes - the labels put before the father/mother columns.
// Only the ancestral categories carry the late-parent honorifics;
// everything else gets a single-space placeholder.
func ParentPrefixes(cat Category) (father string, mother string) {
	switch cat {
	case CatA1, CatB1:
		return prefixLateFather, prefixLateMother
	default:
		return " ", " "
	}
}

// SideCaption - the deliverance caption. A3/B3 slots name the unborn
// child unless the deceased field holds the generic label itself.
func SideCaption(cat Category, form orders.FormData) string {
	if cat != CatA3 && cat != CatB3 {
		return CaptionDeliverance
	}
	deceased := form.First("deceased")
	if deceased == unbornChildLabel {
		deceased = ""
	}
	return CaptionDeliverance + " " + unbornChildLabel + deceased
}
