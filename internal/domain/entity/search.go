package entity

import (
	"strings"

	"github.com/samber/lo"
)

// absentValue is how a missing value renders in the flattened search text; it is never
// matched against.
const absentValue = "null"

// SearchValue flattens an item into the comma-separated text used for keyword matching.
// Fields appear in a fixed order: title, description, guid, link, author, categories,
// pubDate, enclosure, comments, embedded channel, custom field values. Empty values
// are dropped and embedded commas are not escaped.
func SearchValue(item *Item) string {
	if item == nil {
		return ""
	}
	values := []string{
		item.Title,
		item.Description,
		item.GUID,
		item.Link,
		item.Author,
		listText(item.Category),
		item.PubDate,
		item.Enclosure,
		listText(item.Comments),
		channelText(item.Channel),
		customText(item.CustomFields),
	}
	return strings.Join(lo.Filter(values, func(v string, _ int) bool {
		return v != "" && v != absentValue
	}), ",")
}

// Matches reports whether the search value of item contains keyphrase, ignoring case.
func Matches(item *Item, keyphrase string) bool {
	if item == nil {
		return false
	}
	return strings.Contains(strings.ToLower(SearchValue(item)), strings.ToLower(keyphrase))
}

func listText(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ", ")
}

func channelText(ch *Channel) string {
	if ch == nil {
		return ""
	}
	parts := lo.Compact([]string{ch.Title, ch.Link, ch.Description})
	return strings.Join(parts, ", ")
}

func customText(fields []CustomField) string {
	values := lo.FilterMap(fields, func(f CustomField, _ int) (string, bool) {
		return f.Value, f.Value != ""
	})
	return strings.Join(values, ",")
}
