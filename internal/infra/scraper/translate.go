package scraper

import (
	"maps"
	"slices"

	"feed-aggregator/internal/domain/entity"

	"github.com/mmcdole/gofeed"
)

// translateFeed maps a gofeed.Feed parsed from Atom or JSON onto the RSS shaped
// channel. Extension elements become custom fields.
func translateFeed(feed *gofeed.Feed) *entity.Channel {
	ch := &entity.Channel{
		Title:         feed.Title,
		Description:   feed.Description,
		Language:      feed.Language,
		Link:          feed.Link,
		Copyright:     feed.Copyright,
		Categories:    feed.Categories,
		LastBuildDate: feed.Updated,
		PubDate:       feed.Published,
	}
	for _, it := range feed.Items {
		if it != nil {
			ch.Items = append(ch.Items, translateItem(it))
		}
	}
	return ch
}

func translateItem(it *gofeed.Item) *entity.Item {
	out := &entity.Item{
		Title:       it.Title,
		Description: it.Description,
		GUID:        it.GUID,
		Link:        it.Link,
		Category:    it.Categories,
		PubDate:     it.Published,
	}
	if out.Description == "" {
		out.Description = it.Content
	} else if it.Content != "" {
		out.CustomFields = append(out.CustomFields, entity.CustomField{Key: "content", Value: it.Content})
	}
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		out.Author = it.Authors[0].Name
	}
	if len(it.Enclosures) > 0 && it.Enclosures[0] != nil {
		out.Enclosure = it.Enclosures[0].URL
	}
	if it.Updated != "" {
		out.CustomFields = append(out.CustomFields, entity.CustomField{Key: "updated", Value: it.Updated})
	}

	for _, ns := range slices.Sorted(maps.Keys(it.Extensions)) {
		byName := it.Extensions[ns]
		for _, name := range slices.Sorted(maps.Keys(byName)) {
			for _, ext := range byName[name] {
				out.CustomFields = append(out.CustomFields, entity.CustomField{Key: name, Value: ext.Value})
			}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(it.Custom)) {
		out.CustomFields = append(out.CustomFields, entity.CustomField{Key: key, Value: it.Custom[key]})
	}
	return out
}
