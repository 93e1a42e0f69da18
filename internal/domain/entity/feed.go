package entity

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Channel is the parsed top-level feed metadata plus its items.
// A Channel is a snapshot produced by a single fetch; it is never updated afterwards.
type Channel struct {
	Title         string
	Description   string
	Language      string
	Link          string
	Copyright     string
	Categories    []string
	LastBuildDate string
	PubDate       string
	WebMaster     string
	TTL           *int
	Items         []*Item
}

// Item is one entry within a Channel.
type Item struct {
	Title       string
	Description string
	GUID        string
	Link        string
	Author      string
	Category    []string
	PubDate     string
	Enclosure   string
	Comments    []string
	// Channel is set when a feed wraps channel metadata inside an item.
	Channel *Channel
	// CustomFields holds every child element that is not one of the fields above,
	// in document order.
	CustomFields []CustomField
}

// CustomField is a non-standard element captured while parsing an Item.
type CustomField struct {
	Key   string
	Value string
}

// UnmarshalXML captures the element's local name and its complete text content,
// including text nested in child elements.
func (f *CustomField) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	text, err := elementText(d)
	if err != nil {
		return err
	}
	f.Key = start.Name.Local
	f.Value = text
	return nil
}

// MarshalXML always fails: custom fields are read-only.
func (f CustomField) MarshalXML(_ *xml.Encoder, _ xml.StartElement) error {
	return fmt.Errorf("marshal custom field %q: %w", f.Key, ErrUnsupported)
}

// UnmarshalXML routes known, un-namespaced children to their fields and captures
// everything else as CustomField entries.
func (it *Item) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(el xml.StartElement) error {
		if el.Name.Space != "" {
			return it.decodeCustom(d, el)
		}
		switch el.Name.Local {
		case "title":
			return d.DecodeElement(&it.Title, &el)
		case "description":
			return d.DecodeElement(&it.Description, &el)
		case "guid":
			return d.DecodeElement(&it.GUID, &el)
		case "link":
			return d.DecodeElement(&it.Link, &el)
		case "author":
			return d.DecodeElement(&it.Author, &el)
		case "category":
			return appendText(d, el, &it.Category)
		case "pubDate":
			return d.DecodeElement(&it.PubDate, &el)
		case "enclosure":
			return it.decodeEnclosure(d, el)
		case "comments":
			return appendText(d, el, &it.Comments)
		case "channel":
			ch := new(Channel)
			if err := d.DecodeElement(ch, &el); err != nil {
				return err
			}
			it.Channel = ch
			return nil
		default:
			return it.decodeCustom(d, el)
		}
	})
}

func (it *Item) decodeCustom(d *xml.Decoder, el xml.StartElement) error {
	var f CustomField
	if err := d.DecodeElement(&f, &el); err != nil {
		return err
	}
	it.CustomFields = append(it.CustomFields, f)
	return nil
}

// decodeEnclosure prefers the element text and falls back to the url attribute,
// which is where RSS 2.0 puts it.
func (it *Item) decodeEnclosure(d *xml.Decoder, el xml.StartElement) error {
	text, err := elementText(d)
	if err != nil {
		return err
	}
	it.Enclosure = text
	if strings.TrimSpace(text) == "" {
		for _, attr := range el.Attr {
			if attr.Name.Local == "url" {
				it.Enclosure = attr.Value
				break
			}
		}
	}
	return nil
}

// UnmarshalXML decodes the known channel fields. Unknown or namespaced elements
// (atom:link and friends) are skipped.
func (c *Channel) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return eachChild(d, func(el xml.StartElement) error {
		if el.Name.Space != "" {
			return d.Skip()
		}
		switch el.Name.Local {
		case "title":
			return d.DecodeElement(&c.Title, &el)
		case "description":
			return d.DecodeElement(&c.Description, &el)
		case "language":
			return d.DecodeElement(&c.Language, &el)
		case "link":
			return d.DecodeElement(&c.Link, &el)
		case "copyright":
			return d.DecodeElement(&c.Copyright, &el)
		case "category":
			return appendText(d, el, &c.Categories)
		case "lastBuildDate":
			return d.DecodeElement(&c.LastBuildDate, &el)
		case "pubDate":
			return d.DecodeElement(&c.PubDate, &el)
		case "webMaster":
			return d.DecodeElement(&c.WebMaster, &el)
		case "ttl":
			var ttl int
			if err := d.DecodeElement(&ttl, &el); err != nil {
				return fmt.Errorf("decode ttl: %w", err)
			}
			c.TTL = &ttl
			return nil
		case "item":
			it := new(Item)
			if err := d.DecodeElement(it, &el); err != nil {
				return err
			}
			c.Items = append(c.Items, it)
			return nil
		default:
			return d.Skip()
		}
	})
}

// eachChild calls fn for every direct child element until the enclosing end element.
// fn must consume the child it is given.
func eachChild(d *xml.Decoder, fn func(xml.StartElement) error) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func appendText(d *xml.Decoder, el xml.StartElement, dst *[]string) error {
	var s string
	if err := d.DecodeElement(&s, &el); err != nil {
		return err
	}
	*dst = append(*dst, s)
	return nil
}

// elementText consumes the current element and returns all character data beneath it.
func elementText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}
