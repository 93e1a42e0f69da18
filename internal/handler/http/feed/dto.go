package feed

import (
	"feed-aggregator/internal/domain/entity"

	"github.com/samber/lo"
)

// ChannelDTO is the JSON form of a parsed channel.
type ChannelDTO struct {
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	Language      string    `json:"language,omitempty"`
	Link          string    `json:"link,omitempty"`
	Copyright     string    `json:"copyright,omitempty"`
	Category      []string  `json:"category,omitempty"`
	LastBuildDate string    `json:"lastBuildDate,omitempty"`
	PubDate       string    `json:"pubDate,omitempty"`
	WebMaster     string    `json:"webMaster,omitempty"`
	TTL           *int      `json:"ttl,omitempty"`
	Items         []ItemDTO `json:"items,omitempty"`
}

// ItemDTO is the JSON form of a feed item.
type ItemDTO struct {
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	GUID         string           `json:"guid,omitempty"`
	Link         string           `json:"link,omitempty"`
	Author       string           `json:"author,omitempty"`
	Category     []string         `json:"category,omitempty"`
	PubDate      string           `json:"pubDate,omitempty"`
	Enclosure    string           `json:"enclosure,omitempty"`
	Comments     []string         `json:"comments,omitempty"`
	Channel      *ChannelDTO      `json:"channel,omitempty"`
	CustomFields []CustomFieldDTO `json:"customFields,omitempty"`
}

// CustomFieldDTO is a non-standard item element.
type CustomFieldDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func toChannelDTO(ch *entity.Channel) ChannelDTO {
	return ChannelDTO{
		Title:         ch.Title,
		Description:   ch.Description,
		Language:      ch.Language,
		Link:          ch.Link,
		Copyright:     ch.Copyright,
		Category:      ch.Categories,
		LastBuildDate: ch.LastBuildDate,
		PubDate:       ch.PubDate,
		WebMaster:     ch.WebMaster,
		TTL:           ch.TTL,
		Items:         toItemDTOs(ch.Items),
	}
}

func toChannelDTOs(channels []*entity.Channel) []ChannelDTO {
	return lo.FilterMap(channels, func(ch *entity.Channel, _ int) (ChannelDTO, bool) {
		if ch == nil {
			return ChannelDTO{}, false
		}
		return toChannelDTO(ch), true
	})
}

func toItemDTOs(items []*entity.Item) []ItemDTO {
	return lo.FilterMap(items, func(it *entity.Item, _ int) (ItemDTO, bool) {
		if it == nil {
			return ItemDTO{}, false
		}
		return toItemDTO(it), true
	})
}

func toItemDTO(it *entity.Item) ItemDTO {
	dto := ItemDTO{
		Title:       it.Title,
		Description: it.Description,
		GUID:        it.GUID,
		Link:        it.Link,
		Author:      it.Author,
		Category:    it.Category,
		PubDate:     it.PubDate,
		Enclosure:   it.Enclosure,
		Comments:    it.Comments,
		CustomFields: lo.Map(it.CustomFields, func(f entity.CustomField, _ int) CustomFieldDTO {
			return CustomFieldDTO{Key: f.Key, Value: f.Value}
		}),
	}
	if it.Channel != nil {
		ch := toChannelDTO(it.Channel)
		dto.Channel = &ch
	}
	return dto
}
