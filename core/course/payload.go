package course

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Payload is the multipart submission of a course.
type Payload struct {
	Title            string
	Description      string
	Type             Type
	Price            float64
	Content          []WireContent
	Categories       []string
	Requirements     []string
	WhatYouWillLearn []string
	Level            Level
	Status           string
	Category         string

	Thumbnail           *PendingFile // nil when already stored
	Attachments         []PendingFile
	ExistingAttachments []Descriptor

	// Premium courses only, in content order.
	ContentVideos     []PendingFile
	ContentThumbnails []PendingFile
}

// FormFile is a binary part of the submission.
type FormFile struct {
	Param string
	File  PendingFile
}

// BuildPayload serializes c for submission. Pending files of content items are sent
// as separate parts and their slot in the content array is left null.
func BuildPayload(c *Course) *Payload {
	p := &Payload{
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Content:          make([]WireContent, 0, len(c.Content)),
		Categories:       append([]string{}, c.Categories...),
		Requirements:     append([]string{}, c.Requirements...),
		WhatYouWillLearn: append([]string{}, c.WhatYouWillLearn...),
		Level:            c.Level,
		Status:           StatusDraft,
		Category:         c.Category,
	}
	if c.Type == TypePremium {
		p.Price = c.Price
	}
	if f, ok := c.Thumbnail.PendingFile(); ok {
		p.Thumbnail = &f
	}
	for _, a := range c.Attachments {
		if f, ok := a.PendingFile(); ok {
			p.Attachments = append(p.Attachments, f)
		} else if d, ok := a.Descriptor(); ok {
			p.ExistingAttachments = append(p.ExistingAttachments, d)
		}
	}

	premium := c.Type == TypePremium
	for _, item := range c.Content {
		w := ToWireContent(item)
		switch item := item.(type) {
		case *Tutorial:
			if f, ok := item.Video.PendingFile(); ok {
				w.Video = nil
				if premium {
					p.ContentVideos = append(p.ContentVideos, f)
				}
			}
		case *Live:
			if f, ok := item.Thumbnail.PendingFile(); ok {
				w.Thumbnail = nil
				if premium {
					p.ContentThumbnails = append(p.ContentThumbnails, f)
				}
			}
		}
		p.Content = append(p.Content, w)
	}
	return p
}

// FormFields returns the text fields of the submission, nested arrays being JSON encoded.
func (p *Payload) FormFields() (map[string]string, error) {
	fields := map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"type":        string(p.Type),
		"price":       strconv.FormatFloat(p.Price, 'f', -1, 64),
		"level":       string(p.Level),
		"status":      p.Status,
		"category":    p.Category,
	}
	arrays := map[string]interface{}{
		"content":          p.Content,
		"categories":       p.Categories,
		"requirements":     p.Requirements,
		"whatYouWillLearn": p.WhatYouWillLearn,
	}
	if len(p.ExistingAttachments) > 0 {
		arrays["existingAttachments"] = p.ExistingAttachments
	}
	for name, v := range arrays {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", name)
		}
		fields[name] = string(data)
	}
	return fields, nil
}

// Files returns the binary parts of the submission.
func (p *Payload) Files() []FormFile {
	var files []FormFile
	if p.Thumbnail != nil {
		files = append(files, FormFile{Param: "thumbnail", File: *p.Thumbnail})
	}
	for _, f := range p.Attachments {
		files = append(files, FormFile{Param: "attachments[]", File: f})
	}
	for _, f := range p.ContentVideos {
		files = append(files, FormFile{Param: "contentVideos[]", File: f})
	}
	for _, f := range p.ContentThumbnails {
		files = append(files, FormFile{Param: "contentThumbnails[]", File: f})
	}
	return files
}
